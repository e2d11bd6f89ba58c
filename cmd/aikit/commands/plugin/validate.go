package plugin

import (
	"context"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/doctor"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/marketplace"
	"github.com/keboola/ai-kit/internal/validator"
)

var validateFormatFlag string

func init() {
	validateCmd.Flags().StringVarP(&validateFormatFlag, "format", "o", string(validator.FormatText),
		"output format: text, json")
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [plugin...]",
	Short: "Validate plugin manifests and component frontmatter",
	Long: `Validate plugin.json and the frontmatter of every agent, command and
skill. With no arguments every local plugin is validated.

Agents need a name and description; skills need a SKILL.md with name and
description; commands may omit frontmatter. Hard-coded secrets in MCP server
env or headers are reported as warnings.`,
	Example: `  # Validate everything
  aikit plugin validate

  # Validate one plugin, machine readable
  aikit plugin validate developer -o json

  See Also:
    aikit doctor          - Full marketplace health check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateWithWriter(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

// runValidateWithWriter allows injecting a writer for testing.
func runValidateWithWriter(ctx context.Context, w io.Writer, names []string) error {
	format := validator.Format(validateFormatFlag)
	if format != validator.FormatText && format != validator.FormatJSON {
		return errors.NewUserError(errors.Newf("unknown format %q", validateFormatFlag), "Use --format text or json")
	}

	mp, err := loadMarketplace(ctx)
	if err != nil {
		return err
	}

	selected := mp.Plugins
	if len(names) > 0 {
		selected = nil
		for _, name := range names {
			p := mp.Plugin(name)
			if p == nil {
				return errors.NewUserError(
					errors.Wrapf(errors.ErrNotFound, "plugin %q", name),
					"Run 'aikit plugin list' to see the plugins of this marketplace")
			}
			if !slices.Contains(selected, p) {
				selected = append(selected, p)
			}
		}
	}
	subset := &marketplace.Marketplace{Root: mp.Root, Manifest: mp.Manifest, Plugins: selected}

	result := doctor.PluginManifests(subset)
	for _, c := range subset.Components() {
		result.Merge(validator.Component(c))
	}

	if err := validator.NewReporter(w, format).Report(result); err != nil {
		return err
	}
	if result.HasErrors() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}
