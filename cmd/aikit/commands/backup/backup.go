// Package backup provides CLI commands for managing file backups.
package backup

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/internal/backup"
)

// scopeFlag holds the value of the --scope flag shared by subcommands.
var scopeFlag string

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	idColor     = color.New(color.FgGreen)
	grayColor   = color.New(color.FgHiBlack)
	okColor     = color.New(color.FgGreen)
)

func init() {
	Cmd.PersistentFlags().StringVarP(&scopeFlag, "scope", "s", "",
		"backup scope: settings, bump (default: all scopes)")
}

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage file backups",
	Long: `Manage the backups aikit takes before it overwrites files.

'aikit settings install --force' backs up the existing settings file under
the settings scope; 'aikit bump --backup' backs up every JSON file it is
about to rewrite under the bump scope. Each backup records a SHA256 per
file, and a restore verifies them all before writing anything.

Backups are stored in $XDG_CONFIG_HOME/aikit/backups/<scope>/.`,
	Example: `  # List all backups
  aikit backup list

  # Undo the last version bump
  aikit backup restore --scope bump

  # Restore a specific settings backup
  aikit backup restore 20260123T100712 --scope settings

  # Remove old backups, keeping the 3 most recent per scope
  aikit backup prune --keep 3

  See Also:
    aikit backup list    - List available backups
    aikit backup restore - Restore from a backup
    aikit backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// scopes returns the --scope value, or every scope that has backups.
func scopes(mgr *backup.Manager) ([]string, error) {
	if scopeFlag != "" {
		return []string{scopeFlag}, nil
	}
	return mgr.Scopes()
}
