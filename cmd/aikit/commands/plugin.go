package commands

import "github.com/keboola/ai-kit/cmd/aikit/commands/plugin"

func init() {
	rootCmd.AddCommand(plugin.Cmd)
}
