package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the tool's own directories.
const AppName = "aikit"

// Host-facing directory and file names inside a project.
const (
	// ClaudeDirName is the project-local assistant configuration directory.
	ClaudeDirName = ".claude"

	// SettingsFileName is the permissions file inside ClaudeDirName.
	SettingsFileName = "settings.json"
)

// Permissions for directories aikit creates.
const (
	// DefaultDirPerm is used for tool-private directories (config, backups).
	DefaultDirPerm = 0o700

	// ProjectDirPerm is used for project directories that are usually committed.
	ProjectDirPerm = 0o755
)

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// EnsureDir creates path and any missing parents. A zero perm means
// DefaultDirPerm. Returns nil when the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns <ConfigHome>/aikit.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the root directory for backups: <ConfigHome>/aikit/backups.
func BackupDir() string {
	return filepath.Join(AppConfigDir(), "backups")
}

// ProjectClaudeDir returns <projectRoot>/.claude, or "" for an empty root.
func ProjectClaudeDir(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	return filepath.Join(projectRoot, ClaudeDirName)
}

// ProjectSettingsPath returns <projectRoot>/.claude/settings.json, or "" for
// an empty root.
func ProjectSettingsPath(projectRoot string) string {
	dir := ProjectClaudeDir(projectRoot)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, SettingsFileName)
}
