package validator

import (
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/keboola/ai-kit/internal/bump"
	"github.com/keboola/ai-kit/internal/marketplace"
	"github.com/keboola/ai-kit/internal/redact"
)

// Limits the host enforces on skill metadata.
const (
	MaxSkillNameLen        = 64
	MaxSkillDescriptionLen = 1024
)

var (
	kebabCase   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	agentModels = []string{"sonnet", "opus", "haiku", "inherit"}
)

// Component validates the frontmatter of an agent, command or skill.
func Component(c marketplace.Component) *Result {
	r := ForPath(c.Path)

	if c.ParseErr != nil {
		r.AddError("frontmatter", c.ParseErr.Error(), nil)
		return r
	}

	switch c.Kind {
	case marketplace.KindAgent:
		validateAgent(r, c)
	case marketplace.KindCommand:
		validateCommand(r, c)
	case marketplace.KindSkill:
		validateSkill(r, c)
	}
	return r
}

func validateAgent(r *Result, c marketplace.Component) {
	if c.Meta == nil {
		r.AddError("frontmatter", "agents need name and description frontmatter", nil)
		return
	}
	requireString(r, c.Meta, "name")
	requireString(r, c.Meta, "description")
	if name, ok := c.Meta["name"].(string); ok && name != "" && !kebabCase.MatchString(name) {
		r.AddWarning("name", "should be lowercase words separated by hyphens", name)
	}
	if model, ok := c.Meta["model"].(string); ok && !slices.Contains(agentModels, model) {
		r.AddWarning("model", "unknown model alias (want sonnet, opus, haiku or inherit)", model)
	}
	toolList(r, c.Meta, "tools")
}

func validateCommand(r *Result, c marketplace.Component) {
	if c.Meta == nil || c.Description == "" {
		r.AddWarning("description", "commands without a description are hard to find in the picker", nil)
	}
	if c.Meta == nil {
		return
	}
	if v, ok := c.Meta["argument-hint"]; ok {
		if _, isString := v.(string); !isString {
			r.AddError("argument-hint", "must be a string", v)
		}
	}
	toolList(r, c.Meta, "allowed-tools")
}

func validateSkill(r *Result, c marketplace.Component) {
	if c.Meta == nil {
		r.AddError("frontmatter", "skills require frontmatter", nil)
		return
	}
	name := requireString(r, c.Meta, "name")
	desc := requireString(r, c.Meta, "description")

	if name != "" {
		if len(name) > MaxSkillNameLen {
			r.AddError("name", "exceeds 64 characters", len(name))
		}
		if !kebabCase.MatchString(name) {
			r.AddError("name", "must be lowercase letters, digits and hyphens", name)
		}
		if dir := path.Base(path.Dir(c.Path)); dir != name {
			r.AddWarning("name", "differs from the skill directory "+dir, name)
		}
	}
	if len(desc) > MaxSkillDescriptionLen {
		r.AddError("description", "exceeds 1024 characters", len(desc))
	}
}

// requireString reports a missing or non-string key and returns its value.
func requireString(r *Result, meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		r.AddError(key, "is required", nil)
		return ""
	}
	s, isString := v.(string)
	if !isString {
		r.AddError(key, "must be a string", v)
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.AddError(key, "must not be empty", nil)
	}
	return strings.TrimSpace(s)
}

// toolList accepts a comma-separated string or a list of strings.
func toolList(r *Result, meta map[string]any, key string) {
	v, ok := meta[key]
	if !ok {
		return
	}
	switch t := v.(type) {
	case string:
		for _, tok := range SplitTools(t) {
			checkTool(r, key, tok)
		}
	case []any:
		for _, item := range t {
			s, isString := item.(string)
			if !isString {
				r.AddError(key, "entries must be strings", item)
				return
			}
			checkTool(r, key, s)
		}
	default:
		r.AddError(key, "must be a string or a list of strings", v)
	}
}

// PluginManifest validates a plugin.json against its marketplace entry.
func PluginManifest(relPath string, entry marketplace.Entry, m *marketplace.PluginManifest) *Result {
	r := ForPath(relPath)
	if m == nil {
		r.AddError("", "plugin.json is missing", nil)
		return r
	}

	switch {
	case m.Name == "":
		r.AddError("name", "is required", nil)
	case m.Name != entry.Name:
		r.AddError("name", "does not match the marketplace entry "+entry.Name, m.Name)
	case !kebabCase.MatchString(m.Name):
		r.AddWarning("name", "should be lowercase words separated by hyphens", m.Name)
	}

	switch {
	case m.Version == "":
		r.AddWarning("version", "is missing", nil)
	case !bump.ValidVersion(m.Version):
		r.AddWarning("version", "is not a semantic version", m.Version)
	}
	if entry.Version != "" && m.Version != "" && entry.Version != m.Version {
		r.AddWarning("version", "differs from the marketplace entry "+entry.Version, m.Version)
	}

	if m.Description == "" {
		r.AddWarning("description", "is missing", nil)
	}

	for _, name := range slices.Sorted(maps.Keys(m.MCPServers)) {
		srv := m.MCPServers[name]
		field := "mcpServers." + name
		if srv == nil {
			r.AddError(field, "is null", nil)
			continue
		}
		if srv.Command == "" && srv.URL == "" {
			r.AddError(field, "needs a command or a url", nil)
		}
		if srv.Command != "" && srv.URL != "" {
			r.AddWarning(field, "sets both command and url", nil)
		}
		for _, k := range slices.Sorted(maps.Keys(srv.Env)) {
			if v := srv.Env[k]; literalSecret(k, v) {
				r.AddWarning(field+".env."+k, "looks like a hard-coded secret; use ${VAR} expansion", redact.MaskValue(v))
			}
		}
		for _, k := range slices.Sorted(maps.Keys(srv.Headers)) {
			if v := srv.Headers[k]; literalSecret(k, v) {
				r.AddWarning(field+".headers."+k, "looks like a hard-coded secret; use ${VAR} expansion", redact.MaskValue(v))
			}
		}
	}
	return r
}

// literalSecret reports values that carry a credential inline rather than
// through ${VAR} expansion.
func literalSecret(key, value string) bool {
	if value == "" || strings.Contains(value, "${") {
		return false
	}
	return redact.ShouldMask(key) || redact.ContainsTokenPrefix(value)
}
