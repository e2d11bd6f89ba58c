package backup

import (
	"io/fs"
	"time"

	"github.com/keboola/ai-kit/internal/errors"
)

// ManifestVersion is the manifest.json format version.
const ManifestVersion = 1

// ManifestFile is the name of the manifest inside a backup directory.
const ManifestFile = "manifest.json"

// DefaultRetention is the number of backups kept per scope.
const DefaultRetention = 5

// Known scopes.
const (
	ScopeSettings = "settings"
	ScopeBump     = "bump"
)

var (
	// ErrNoBackupsFound indicates the scope or backup ID does not exist.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches its hash.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrInvalidScope is returned for empty or path-like scope names.
	ErrInvalidScope = errors.New("invalid backup scope")
)

// Manifest describes one backup and is stored as manifest.json.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Scope     string    `json:"scope"`
	Files     []File    `json:"files"`
	// ToolVersion is the aikit version that wrote the backup.
	ToolVersion string `json:"aikit_version"`

	// ID is the directory name. It is derived on load, not stored.
	ID string `json:"-"`
}

// File is one backed-up file.
type File struct {
	OriginalPath string      `json:"original_path"`
	RelPath      string      `json:"rel_path"`
	SHA256       string      `json:"sha256"`
	Size         int64       `json:"size"`
	Mode         fs.FileMode `json:"mode"`
}
