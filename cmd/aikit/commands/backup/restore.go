package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/errors"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore files from a backup",
	Long: `Restore every file of a backup to its original location.

If no backup ID is provided, restores the most recent backup of the scope.
The --scope flag is required to avoid restoring the wrong kind of backup.
All hashes are verified before any file is written; existing files are
overwritten.`,
	Example: `  # Undo the last bump
  aikit backup restore --scope bump

  # Restore a specific backup
  aikit backup restore 20260123T100712 --scope settings

  See Also:
    aikit backup list - List available backups`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestoreWithWriter(cmd.OutOrStdout(), args)
	},
}

func runRestoreWithWriter(w io.Writer, args []string) error {
	if scopeFlag == "" {
		return errors.NewUserError(
			errors.Wrap(errors.ErrMissingArgument, "--scope is required for restore"),
			"Run 'aikit backup list' to see the available scopes")
	}

	mgr := flags.BackupManager()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		manifests, err := mgr.List(scopeFlag)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(errors.Newf("no backups found for scope %s", scopeFlag), "")
			}
			return errors.Wrap(err, "listing backups")
		}
		id = manifests[0].ID
		fmt.Fprintf(w, "Using most recent backup: %s\n", id)
	}

	manifest, err := mgr.Restore(scopeFlag, id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) || errors.Is(err, backup.ErrInvalidScope) {
			return errors.NewUserError(err, "Run 'aikit backup list' to see the available backups")
		}
		if errors.Is(err, backup.ErrBackupCorrupted) {
			return errors.NewSystemError(err, "The backup was modified after it was taken; nothing was restored")
		}
		return errors.Wrap(err, "restoring backup")
	}

	for _, f := range manifest.Files {
		fmt.Fprintf(w, "  %s\n", f.OriginalPath)
	}
	fmt.Fprintln(w, okColor.Sprintf("✓ Restored %d file(s) from backup %s", len(manifest.Files), id))
	return nil
}
