package plugin

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/marketplace"
)

var (
	searchKind        string
	searchPlugin      string
	searchFormat      string
	searchInteractive bool
)

// findComponent is replaced in tests; the real finder needs a terminal.
var findComponent = func(components []marketplace.Component) (int, error) {
	return fuzzyfinder.Find(
		components,
		func(i int) string {
			return fmt.Sprintf("%s: %s (%s)", components[i].Kind, components[i].Name, components[i].Plugin)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			c := components[i]
			return fmt.Sprintf("Kind: %s\nPlugin: %s\nName: %s\nPath: %s\n\nDescription:\n%s",
				c.Kind, c.Plugin, c.Name, c.Path, c.Description)
		}),
	)
}

func init() {
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "filter by component kind (agent, command, skill)")
	searchCmd.Flags().StringVar(&searchPlugin, "plugin", "", "filter by plugin name")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "o", formatText, "output format: text, json, yaml, toml")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "pick a result with a fuzzy finder")
	Cmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search components by name and description",
	Long: `Search the agents, commands and skills of the marketplace.

The search is case-insensitive and matches against component names and
descriptions. Results are sorted by match quality: exact name matches first,
then prefix matches, then substring matches, then description-only matches.

If no query is provided, all components are listed (subject to filters).`,
	Example: `  # Components mentioning "deploy"
  aikit plugin search deploy

  # Only skills
  aikit plugin search --kind skill

  # Browse interactively
  aikit plugin search -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) > 0 {
			query = args[0]
		}
		return runSearchWithWriter(cmd.Context(), cmd.OutOrStdout(), query)
	},
}

// runSearchWithWriter allows injecting a writer for testing.
func runSearchWithWriter(ctx context.Context, w io.Writer, query string) error {
	if err := validateFormat(searchFormat); err != nil {
		return err
	}
	opts, err := filterOptions(searchKind, searchPlugin)
	if err != nil {
		return err
	}

	mp, err := loadMarketplace(ctx)
	if err != nil {
		return err
	}
	results := marketplace.Search(mp.Components(), query, opts)

	if searchInteractive {
		return runInteractiveSearch(w, results)
	}
	if searchFormat != formatText {
		if results == nil {
			results = []marketplace.Component{}
		}
		return writeStructured(w, searchFormat, componentsOutput{Components: results})
	}
	return outputSearchText(w, results)
}

func runInteractiveSearch(w io.Writer, components []marketplace.Component) error {
	if len(components) == 0 {
		fmt.Fprintln(w, "No components found.")
		return nil
	}

	idx, err := findComponent(components)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	c := components[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", c.Name, c.Kind)
	fmt.Fprintf(w, "Plugin: %s\n", c.Plugin)
	fmt.Fprintf(w, "Path: %s\n", c.Path)
	fmt.Fprintf(w, "Description: %s\n", c.Description)
	return nil
}

func outputSearchText(w io.Writer, components []marketplace.Component) error {
	if len(components) == 0 {
		fmt.Fprintln(w, "No components found.")
		return nil
	}

	name := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tPLUGIN\tNAME\tDESCRIPTION")
	for _, c := range components {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			c.Kind, c.Plugin, name.Sprint(c.Name), gray.Sprint(truncate(c.Description, 50)))
	}
	return tw.Flush()
}
