// Package plugin provides the plugin command group for inspecting the
// agents, commands and skills a marketplace ships.
package plugin

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/marketplace"
)

// Cmd is the plugin command group.
var Cmd = &cobra.Command{
	Use:   "plugin",
	Short: "Inspect marketplace plugins and their components",
	Long: `List, show, search and validate the agents, commands and skills shipped
by the plugins of a marketplace repository.

The marketplace is found by walking up from the working directory to the
first directory containing .claude-plugin/marketplace.json; --root overrides
the search.`,
	Example: `  # List every component
  aikit plugin list

  # Show one skill
  aikit plugin show dataapp-deployment

  See Also: aikit doctor`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Output formats shared by list, show and search.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML, formatTOML:
		return nil
	}
	return errors.NewUserError(
		errors.Newf("unknown format %q", format),
		"Use --format text, json, yaml or toml")
}

// writeStructured encodes v in a machine-readable format. TOML documents
// must be tables, so callers pass structs rather than slices.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case formatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding TOML")
	}
	return errors.Newf("unsupported format %q", format)
}

// filterOptions parses the shared --kind and --plugin flags.
func filterOptions(kind, plugin string) (marketplace.SearchOptions, error) {
	opts := marketplace.SearchOptions{Plugin: plugin}
	if kind != "" {
		k, err := marketplace.ParseKind(kind)
		if err != nil {
			return opts, errors.NewUserError(err, "")
		}
		opts.Kind = k
	}
	return opts, nil
}

// loadMarketplace resolves the root and loads every plugin.
func loadMarketplace(ctx context.Context) (*marketplace.Marketplace, error) {
	root, err := flags.MarketplaceRoot()
	if err != nil {
		return nil, err
	}
	mp, err := marketplace.NewLoader(logging.FromContext(ctx)).Load(ctx, root)
	if err != nil {
		return nil, errors.NewUserError(err, "Run 'aikit doctor' to diagnose the marketplace manifest")
	}
	return mp, nil
}

// componentsOutput wraps component lists for structured output.
type componentsOutput struct {
	Components []marketplace.Component `json:"components" yaml:"components" toml:"components"`
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
