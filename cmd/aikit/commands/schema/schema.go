// Package schema provides the schema command group for testing component
// configuration schemas in a browser.
package schema

import "github.com/spf13/cobra"

// Cmd is the root schema command.
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Test component configuration schemas",
	Long: `Work with the configSchema.json and configRowSchema.json of a Keboola
component. The schemas live in the component's component_config/ folder.`,
	Example: `  # Open the schema tester for the component in the working directory
  aikit schema serve

  See Also:
    aikit schema serve - Serve the schema tester`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}
