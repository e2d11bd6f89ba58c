package commands

import "github.com/keboola/ai-kit/cmd/aikit/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
