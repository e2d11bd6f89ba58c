package plugin

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/cli/prompt"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/marketplace"
	"github.com/keboola/ai-kit/internal/redact"
)

var (
	showKind   string
	showPlugin string
	showFormat string
)

// newSelector is replaced in tests to answer the duplicate-name prompt.
var newSelector = prompt.NewSelector

func init() {
	showCmd.Flags().StringVar(&showKind, "kind", "", "restrict the lookup to a component kind")
	showCmd.Flags().StringVar(&showPlugin, "plugin", "", "restrict the lookup to one plugin")
	showCmd.Flags().StringVarP(&showFormat, "format", "o", formatText, "output format: text, json, yaml, toml")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a plugin or a component",
	Long: `Show details of a plugin or of one of its components.

When <name> is a plugin, its manifest, component counts and MCP servers are
shown. Secret-looking MCP environment variables and headers are masked.
Otherwise <name> is looked up among component names; when several
components share the name you are asked to pick one, unless --kind or
--plugin narrows it down.`,
	Example: `  # Show a plugin
  aikit plugin show developer

  # Show a command that also exists as a skill
  aikit plugin show deploy --kind command

  See Also:
    aikit plugin list     - List components`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowWithWriter(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

// pluginDetail is the structured form of a plugin.
type pluginDetail struct {
	Name        string               `json:"name" yaml:"name" toml:"name"`
	Version     string               `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Source      string               `json:"source" yaml:"source" toml:"source"`
	Author      string               `json:"author,omitempty" yaml:"author,omitempty" toml:"author,omitempty"`
	Components  map[string]int       `json:"components" yaml:"components" toml:"components"`
	MCPServers  map[string]mcpDetail `json:"mcp_servers,omitempty" yaml:"mcp_servers,omitempty" toml:"mcp_servers,omitempty"`
	LoadError   string               `json:"load_error,omitempty" yaml:"load_error,omitempty" toml:"load_error,omitempty"`
}

// mcpDetail is an MCP server with secrets masked.
type mcpDetail struct {
	Transport string            `json:"transport" yaml:"transport" toml:"transport"`
	Command   string            `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Args      []string          `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	URL       string            `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers,omitempty"`
}

// componentDetail is the structured form of a component.
type componentDetail struct {
	marketplace.Component `yaml:",inline"`
	Metadata              map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(ctx context.Context, w io.Writer, name string) error {
	if err := validateFormat(showFormat); err != nil {
		return err
	}
	opts, err := filterOptions(showKind, showPlugin)
	if err != nil {
		return err
	}

	mp, err := loadMarketplace(ctx)
	if err != nil {
		return err
	}

	if opts.Kind == "" && opts.Plugin == "" {
		if p := mp.Plugin(name); p != nil {
			return showPluginDetail(w, newPluginDetail(p))
		}
	}

	var matches []marketplace.Component
	for _, c := range marketplace.Search(mp.Components(), name, opts) {
		if strings.EqualFold(c.Name, name) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "no plugin or component named %q", name),
			"Run 'aikit plugin search "+name+"' to find similar names")
	}

	selected := &matches[0]
	if len(matches) > 1 {
		selected, err = newSelector().SelectComponent(name, matches)
		if err != nil {
			return errors.NewUserError(err, "")
		}
	}
	return showComponentDetail(w, componentDetail{Component: *selected, Metadata: selected.Meta})
}

func newPluginDetail(p *marketplace.Plugin) pluginDetail {
	d := pluginDetail{
		Name:        p.Name,
		Version:     p.Version(),
		Description: p.Description,
		Source:      p.Source.String(),
		Components:  make(map[string]int, len(marketplace.Kinds)),
	}
	for _, k := range marketplace.Kinds {
		d.Components[string(k)] = 0
	}
	for _, c := range p.Components {
		d.Components[string(c.Kind)]++
	}
	if p.LoadErr != nil {
		d.LoadError = p.LoadErr.Error()
	}

	m := p.Manifest
	if m == nil {
		return d
	}
	if m.Description != "" {
		d.Description = m.Description
	}
	if m.Author != nil {
		d.Author = m.Author.Name
	}
	if len(m.MCPServers) > 0 {
		d.MCPServers = make(map[string]mcpDetail, len(m.MCPServers))
		for name, s := range m.MCPServers {
			if s == nil {
				continue
			}
			d.MCPServers[name] = mcpDetail{
				Transport: s.Transport(),
				Command:   s.Command,
				Args:      s.Args,
				URL:       redact.URL(s.URL),
				Env:       redact.Map(s.Env),
				Headers:   redact.Map(s.Headers),
			}
		}
	}
	return d
}

func showPluginDetail(w io.Writer, d pluginDetail) error {
	if showFormat != formatText {
		return writeStructured(w, showFormat, d)
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Plugin:"), d.Name)
	if d.Version != "" {
		fmt.Fprintf(w, "Version:     %s\n", d.Version)
	}
	if d.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", d.Description)
	}
	fmt.Fprintf(w, "Source:      %s\n", d.Source)
	if d.Author != "" {
		fmt.Fprintf(w, "Author:      %s\n", d.Author)
	}
	fmt.Fprintf(w, "Components:  %d agent(s), %d command(s), %d skill(s)\n",
		d.Components[string(marketplace.KindAgent)],
		d.Components[string(marketplace.KindCommand)],
		d.Components[string(marketplace.KindSkill)])
	if d.LoadError != "" {
		fmt.Fprintf(w, "Load error:  %s\n", d.LoadError)
	}

	if len(d.MCPServers) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("MCP servers:"))
	for _, name := range slices.Sorted(maps.Keys(d.MCPServers)) {
		s := d.MCPServers[name]
		target := s.URL
		if s.Command != "" {
			target = strings.Join(append([]string{s.Command}, s.Args...), " ")
		}
		fmt.Fprintf(w, "  %s (%s) %s\n", name, s.Transport, target)
		printPairs(w, "env", s.Env)
		printPairs(w, "header", s.Headers)
	}
	return nil
}

func printPairs(w io.Writer, label string, m map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(w, "    %s %s=%s\n", label, k, m[k])
	}
}

func showComponentDetail(w io.Writer, d componentDetail) error {
	if showFormat != formatText {
		return writeStructured(w, showFormat, d)
	}

	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s\n", bold.Sprintf("%s:", kindTitle(d.Kind)), d.Name)
	fmt.Fprintf(w, "Plugin:      %s\n", d.Plugin)
	fmt.Fprintf(w, "Path:        %s\n", d.Path)
	if d.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", d.Description)
	}
	if d.ParseErr != nil {
		fmt.Fprintf(w, "Frontmatter: %s\n", color.YellowString("%v", d.ParseErr))
	}

	keys := slices.Sorted(maps.Keys(d.Metadata))
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == "name" || k == "description" })
	if len(keys) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprint("Frontmatter:"))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, formatMeta(d.Metadata[k]))
	}
	return nil
}

func formatMeta(v any) string {
	switch v := v.(type) {
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func kindTitle(k marketplace.Kind) string {
	s := string(k)
	if s == "" {
		return "Component"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
