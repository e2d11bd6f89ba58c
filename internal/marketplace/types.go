// Package marketplace reads a plugin marketplace repository: the top-level
// .claude-plugin/marketplace.json, each plugin's own manifest, and the
// agents, commands and skills the plugins ship.
package marketplace

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/keboola/ai-kit/internal/errors"
)

// Layout names inside a marketplace repository.
const (
	ManifestDir      = ".claude-plugin"
	ManifestFile     = "marketplace.json"
	PluginFile       = "plugin.json"
	AgentsDir        = "agents"
	CommandsDir      = "commands"
	SkillsDir        = "skills"
	SkillFile        = "SKILL.md"
	TemplatesDir     = "templates"
	SettingsTemplate = "settings.json"
)

// Manifest is .claude-plugin/marketplace.json.
type Manifest struct {
	Name     string         `json:"name"`
	Owner    *Owner         `json:"owner,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Plugins  []Entry        `json:"plugins"`
}

// Owner identifies who maintains the marketplace.
type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Entry lists one plugin in the marketplace manifest.
type Entry struct {
	Name        string `json:"name"`
	Source      Source `json:"source"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Source locates a plugin. Most entries use a relative path string; object
// sources (a git repository) are recorded but cannot be scanned locally.
type Source struct {
	Path string
	// Type is the "source" field of an object source, e.g. "github".
	Type string
	Repo string
	URL  string
}

// Local reports whether the source is a path inside the repository.
func (s Source) Local() bool { return s.Path != "" }

// String renders the source for listings.
func (s Source) String() string {
	switch {
	case s.Path != "":
		return s.Path
	case s.Repo != "":
		return s.Type + ":" + s.Repo
	case s.URL != "":
		return s.URL
	}
	return ""
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*s = Source{Path: path}
		return nil
	}
	var obj struct {
		Source string `json:"source"`
		Repo   string `json:"repo"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Newf("plugin source must be a path or an object: %s", data)
	}
	*s = Source{Type: obj.Source, Repo: obj.Repo, URL: obj.URL}
	return nil
}

func (s Source) MarshalJSON() ([]byte, error) {
	if s.Path != "" || (s.Type == "" && s.Repo == "" && s.URL == "") {
		return json.Marshal(s.Path)
	}
	return json.Marshal(struct {
		Source string `json:"source"`
		Repo   string `json:"repo,omitempty"`
		URL    string `json:"url,omitempty"`
	}{s.Type, s.Repo, s.URL})
}

// PluginManifest is plugins/<name>/.claude-plugin/plugin.json. Fields aikit
// does not model are kept in Extra and written back unchanged.
type PluginManifest struct {
	Name        string                `json:"name"`
	Version     string                `json:"version,omitempty"`
	Description string                `json:"description,omitempty"`
	Author      *Owner                `json:"author,omitempty"`
	MCPServers  map[string]*MCPServer `json:"mcpServers,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var pluginManifestKeys = []string{"name", "version", "description", "author", "mcpServers"}

func (p *PluginManifest) UnmarshalJSON(data []byte) error {
	type alias PluginManifest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range pluginManifestKeys {
		delete(all, k)
	}
	*p = PluginManifest(a)
	if len(all) > 0 {
		p.Extra = all
	}
	return nil
}

func (p PluginManifest) MarshalJSON() ([]byte, error) {
	type alias PluginManifest
	known, err := json.Marshal(alias(p))
	if err != nil || len(p.Extra) == 0 {
		return known, err
	}
	merged := make(map[string]json.RawMessage, len(p.Extra)+len(pluginManifestKeys))
	maps.Copy(merged, p.Extra)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	maps.Copy(merged, fields)
	return json.Marshal(merged)
}

// MCPServer is one entry of a plugin's mcpServers map. aikit lists and
// validates servers; it never starts or calls them.
type MCPServer struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Transport returns "stdio" for command servers and the declared type (or
// "http") for URL servers.
func (s *MCPServer) Transport() string {
	switch {
	case s.Type != "":
		return s.Type
	case s.Command != "":
		return "stdio"
	case s.URL != "":
		return "http"
	}
	return ""
}

// Kind is the kind of a plugin component.
type Kind string

const (
	KindAgent   Kind = "agent"
	KindCommand Kind = "command"
	KindSkill   Kind = "skill"
)

// Kinds lists every component kind in display order.
var Kinds = []Kind{KindAgent, KindCommand, KindSkill}

// ParseKind accepts singular or plural kind names.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if s == string(k) || s == string(k)+"s" {
			return k, nil
		}
	}
	return "", errors.Newf("unknown component kind %q (want agent, command or skill)", s)
}

// Component is one agent, command or skill.
type Component struct {
	Plugin      string `json:"plugin" yaml:"plugin" toml:"plugin"`
	Kind        Kind   `json:"kind" yaml:"kind" toml:"kind"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	// Path is relative to the marketplace root.
	Path string `json:"path" yaml:"path" toml:"path"`
	// Meta is the decoded frontmatter.
	Meta map[string]any `json:"-" yaml:"-" toml:"-"`
	// ParseErr is set when the frontmatter could not be read.
	ParseErr error `json:"-" yaml:"-" toml:"-"`
}

// Plugin is a marketplace entry with everything loaded from its directory.
type Plugin struct {
	Entry
	// Dir is the absolute plugin directory; empty for non-local sources.
	Dir        string
	Manifest   *PluginManifest
	Components []Component
	// LoadErr is set when the plugin manifest could not be read.
	LoadErr error
}

// Version returns the plugin manifest version, falling back to the entry.
func (p *Plugin) Version() string {
	if p.Manifest != nil && p.Manifest.Version != "" {
		return p.Manifest.Version
	}
	return p.Entry.Version
}

// Marketplace is a fully loaded repository.
type Marketplace struct {
	Root     string
	Manifest *Manifest
	Plugins  []*Plugin
}

// Plugin returns the plugin named name, or nil.
func (m *Marketplace) Plugin(name string) *Plugin {
	i := slices.IndexFunc(m.Plugins, func(p *Plugin) bool { return p.Name == name })
	if i < 0 {
		return nil
	}
	return m.Plugins[i]
}

// Components returns all components of all plugins in manifest order.
func (m *Marketplace) Components() []Component {
	var out []Component
	for _, p := range m.Plugins {
		out = append(out, p.Components...)
	}
	return out
}
