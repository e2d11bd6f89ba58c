package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of aikit.`,
	Run: func(c *cobra.Command, _ []string) {
		printVersion(c.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "aikit version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit: %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:  %s\n", cmd.Date)
}
