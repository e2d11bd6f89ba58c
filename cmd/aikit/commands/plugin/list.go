package plugin

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/marketplace"
)

var (
	listKind   string
	listPlugin string
	listFormat string
)

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "only list components of this kind (agent, command, skill)")
	listCmd.Flags().StringVar(&listPlugin, "plugin", "", "only list components of this plugin")
	listCmd.Flags().StringVarP(&listFormat, "format", "o", formatText, "output format: text, json, yaml, toml")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List components grouped by plugin",
	Long: `List the agents, commands and skills of every plugin in the marketplace.

Components are read from plugins/<name>/agents/*.md, commands/*.md and
skills/<skill>/SKILL.md. Plugins with a non-local source are shown without
components.`,
	Example: `  # List everything
  aikit plugin list

  # Skills of one plugin, as YAML
  aikit plugin list --kind skill --plugin developer -o yaml

  See Also:
    aikit plugin show     - Show component details
    aikit plugin search   - Search components`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout())
	},
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(ctx context.Context, w io.Writer) error {
	if err := validateFormat(listFormat); err != nil {
		return err
	}
	opts, err := filterOptions(listKind, listPlugin)
	if err != nil {
		return err
	}

	mp, err := loadMarketplace(ctx)
	if err != nil {
		return err
	}

	if listFormat != formatText {
		components := marketplace.Search(mp.Components(), "", opts)
		if components == nil {
			components = []marketplace.Component{}
		}
		return writeStructured(w, listFormat, componentsOutput{Components: components})
	}
	return outputListText(w, mp, opts)
}

func outputListText(w io.Writer, mp *marketplace.Marketplace, opts marketplace.SearchOptions) error {
	header := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	shown := 0
	for _, p := range mp.Plugins {
		if opts.Plugin != "" && p.Name != opts.Plugin {
			continue
		}
		components := marketplace.Search(p.Components, "", opts)

		if shown > 0 {
			fmt.Fprintln(w)
		}
		shown++

		title := p.Name
		if v := p.Version(); v != "" {
			title += " " + v
		}
		fmt.Fprintf(w, "%s\n", header.Sprintf("Plugin: %s", title))

		switch {
		case p.Dir == "":
			fmt.Fprintf(w, "  %s\n", gray.Sprintf("(source %s, not in this repository)", p.Source))
			continue
		case p.LoadErr != nil:
			fmt.Fprintf(w, "  %s\n", color.YellowString("warning: %v", p.LoadErr))
		}
		if len(components) == 0 {
			fmt.Fprintf(w, "  %s\n", gray.Sprint("(no components)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  KIND\tNAME\tDESCRIPTION")
		for _, c := range components {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Kind, name.Sprint(c.Name), truncate(c.Description, 70))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if shown == 0 {
		if opts.Plugin != "" {
			fmt.Fprintf(w, "No plugin named %q.\n", opts.Plugin)
		} else {
			fmt.Fprintln(w, "No plugins in marketplace.")
		}
	}
	return nil
}
