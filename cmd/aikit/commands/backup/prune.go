package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"number of backups to retain per scope (default: backup.retention)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove backups beyond the retention count, oldest first.

By default keeps backup.retention (5) backups per scope. Taking a backup
already prunes its scope; this command is for lowering the count or cleaning
up after changing the configuration.`,
	Example: `  # Keep the configured number of backups
  aikit backup prune

  # Keep only the newest bump backup
  aikit backup prune --scope bump --keep 1

  # Remove all backups
  aikit backup prune --keep 0

  See Also:
    aikit backup list - List available backups`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPruneWithWriter(cmd.OutOrStdout(), cmd.Flags().Changed("keep"))
	},
}

func runPruneWithWriter(w io.Writer, keepSet bool) error {
	mgr := flags.BackupManager()

	keep := mgr.Retention()
	if keepSet {
		if pruneKeep < 0 {
			return errors.NewUserError(errors.New("--keep must be non-negative"), "")
		}
		keep = pruneKeep
	}

	names, err := scopes(mgr)
	if err != nil {
		return err
	}

	pruned := 0
	for _, scope := range names {
		removed, err := mgr.PruneIDs(scope, keep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", scope)
		}
		if len(removed) == 0 {
			continue
		}
		fmt.Fprintln(w, okColor.Sprintf("✓ %s: removed %d old backup(s)", scope, len(removed)))
		pruned += len(removed)
	}

	if pruned == 0 {
		fmt.Fprintln(w, "No backups to prune")
	} else {
		fmt.Fprintf(w, "\nTotal: removed %d backup(s)\n", pruned)
	}
	return nil
}
