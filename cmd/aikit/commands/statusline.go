package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/statusline"
)

func init() {
	rootCmd.AddCommand(statuslineCmd)
}

var statuslineCmd = &cobra.Command{
	Use:   "statusline",
	Short: "Render the assistant status line from session JSON on stdin",
	Long: `Read the session JSON the assistant host pipes to its status line command
and print one line: the working directory, the session cost and the hourly
burn rate.

Missing or malformed input renders zero values; the command always exits 0.
Set NO_COLOR to disable ANSI colors.`,
	Example: `  # .claude/settings.json
  "statusLine": {"type": "command", "command": "aikit statusline"}`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, _ []string) error {
		runStatusline(cmd.InOrStdin(), cmd.OutOrStdout())
		return nil
	},
}

func runStatusline(r io.Reader, w io.Writer) {
	palette := statusline.DefaultPalette()
	if logging.NoColor() {
		palette = statusline.Palette{}
	}
	fmt.Fprintln(w, statusline.Format(statusline.ParseInput(r), palette))
}
