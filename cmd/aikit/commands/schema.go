package commands

import "github.com/keboola/ai-kit/cmd/aikit/commands/schema"

func init() {
	rootCmd.AddCommand(schema.Cmd)
}
