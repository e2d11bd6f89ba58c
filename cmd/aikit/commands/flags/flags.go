// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (plugin, backup, schema).
package flags

import (
	"os"

	"github.com/keboola/ai-kit/internal/backup"
	"github.com/keboola/ai-kit/internal/config"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/marketplace"
)

var (
	// rootFlag holds the value of the --root flag.
	rootFlag string

	// cfg is the configuration loaded by the root command.
	cfg *config.Config

	// backupDir overrides the backup location in tests.
	backupDir string
)

// GetRoot returns the value of the --root flag.
func GetRoot() string {
	return rootFlag
}

// SetRoot sets the --root value. Tests use it to point commands at a
// fixture marketplace.
func SetRoot(root string) {
	rootFlag = root
}

// RootVar returns the address the root command binds --root to.
func RootVar() *string {
	return &rootFlag
}

// Config returns the loaded configuration, or defaults when the root
// command has not run.
func Config() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// SetConfig stores the loaded configuration.
func SetConfig(c *config.Config) {
	cfg = c
}

// MarketplaceRoot returns --root when set, else the nearest marketplace
// above the working directory.
func MarketplaceRoot() (string, error) {
	if rootFlag != "" {
		if _, err := os.Stat(marketplace.ManifestPath(rootFlag)); err != nil {
			return "", errors.NewUserError(
				errors.Wrapf(marketplace.ErrNoMarketplace, "in %s", rootFlag),
				"--root must point at a directory containing .claude-plugin/marketplace.json")
		}
		return rootFlag, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	root, err := marketplace.FindRoot(wd)
	if err != nil {
		return "", errors.NewUserError(err, "Run inside a marketplace repository or pass --root")
	}
	return root, nil
}

// SetBackupDir redirects BackupManager to dir; empty restores the default.
func SetBackupDir(dir string) {
	backupDir = dir
}

// BackupManager returns a backup manager honoring backup.retention.
func BackupManager() *backup.Manager {
	opts := []backup.Option{backup.WithRetention(Config().Backup.Retention)}
	if backupDir != "" {
		opts = append(opts, backup.WithBackupDir(backupDir))
	}
	return backup.NewManager(opts...)
}
