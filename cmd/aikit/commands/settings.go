package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/settings"
)

var (
	settingsProjectDir string
	settingsForce      bool
)

func init() {
	settingsInstallCmd.Flags().StringVar(&settingsProjectDir, "project-dir", "",
		"project receiving .claude/settings.json (default: working directory)")
	settingsInstallCmd.Flags().BoolVar(&settingsForce, "force", false,
		"replace an existing settings file after backing it up")
	settingsCmd.AddCommand(settingsInstallCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage project permission settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var settingsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the plugin's settings template into the project",
	Long: `Copy the plugin's permission template to .claude/settings.json in the
project.

The plugin directory is read from the environment variable named by
settings.plugin_root_env (CLAUDE_PLUGIN_ROOT by default), which the assistant
host sets when it runs plugin hooks. An existing settings file is never
modified unless --force is given; with --force it is backed up first and can
be restored with 'aikit backup restore --scope settings'.`,
	Example: `  # Install from the current plugin
  CLAUDE_PLUGIN_ROOT=plugins/developer aikit settings install

  # Replace existing settings, keeping a backup
  aikit settings install --force

  See Also: aikit backup list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsInstall(cmd.OutOrStdout(), logging.FromContext(cmd.Context()))
	},
}

func runSettingsInstall(w io.Writer, logger *slog.Logger) error {
	cfg := flags.Config()

	projectDir := settingsProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
		}
		projectDir = wd
	}

	mgr := flags.BackupManager()
	_, err := settings.NewInstaller(w, logger).Install(settings.Options{
		PluginRoot: settings.PluginRootFromEnv(cfg.Settings.PluginRootEnv),
		Template:   cfg.Settings.Template,
		ProjectDir: projectDir,
		Force:      settingsForce,
		Backup: func(path string) (string, error) {
			m, err := mgr.Backup(backup.ScopeSettings, []string{path})
			if err != nil {
				return "", err
			}
			return m.ID, nil
		},
	})
	if errors.Is(err, settings.ErrTemplateNotFound) {
		return errors.NewUserError(err, "Set "+cfg.Settings.PluginRootEnv+" to the plugin directory containing "+cfg.Settings.Template)
	}
	return err
}
