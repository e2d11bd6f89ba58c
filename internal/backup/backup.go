package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/paths"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// ToolVersion is recorded in every manifest. The root command sets it from
// the build version.
var ToolVersion = "dev"

const idLayout = "20060102T150405"

// Manager creates, lists, restores and prunes backups.
type Manager struct {
	rootDir   string
	retention int
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir overrides the root directory (default paths.BackupDir()).
func WithBackupDir(dir string) Option {
	return func(m *Manager) { m.rootDir = dir }
}

// WithRetention sets how many backups to keep per scope. Values below 1 are
// ignored.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retention = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:   paths.BackupDir(),
		retention: DefaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Retention returns the configured retention count.
func (m *Manager) Retention() int { return m.retention }

// Backup copies files into a new backup under scope. Paths may be files or
// directories; missing paths are skipped. Older backups beyond the retention
// count are removed afterwards.
func (m *Manager) Backup(scope string, targets []string) (*Manifest, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("at least one path is required")
	}

	createdAt := m.now().UTC()
	id, dir, err := m.reserveDir(scope, createdAt)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, target := range targets {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", target)
		}

		info, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", target)
		}

		if info.IsDir() {
			err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				f, err := copyIn(p, dir)
				if err != nil {
					return err
				}
				files = append(files, *f)
				return nil
			})
		} else {
			var f *File
			if f, err = copyIn(abs, dir); err == nil {
				files = append(files, *f)
			}
		}
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", target)
		}
	}

	if len(files) == 0 {
		os.RemoveAll(dir)
		return nil, errors.New("no files to back up")
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   createdAt,
		Scope:       scope,
		Files:       files,
		ToolVersion: ToolVersion,
		ID:          id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, ManifestFile), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(scope, m.retention); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// reserveDir creates a fresh backup directory named after t, adding a
// numeric suffix when several backups land in the same second.
func (m *Manager) reserveDir(scope string, t time.Time) (id, dir string, err error) {
	scopeDir := filepath.Join(m.rootDir, scope)
	if err := paths.EnsureDir(scopeDir, paths.DefaultDirPerm); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := t.Format(idLayout)
	for i := 0; i < 100; i++ {
		id = base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir = filepath.Join(scopeDir, id)
		err = os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups at %s", base)
}

func copyIn(src, backupDir string) (*File, error) {
	rel := storagePath(src)
	dst := filepath.Join(backupDir, rel)
	if err := paths.EnsureDir(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, size, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}
	return &File{OriginalPath: src, RelPath: rel, SHA256: hash, Size: size, Mode: mode}, nil
}

// Restore copies every file of a backup back to its original path after
// verifying all hashes. Nothing is written when any file is corrupted.
func (m *Manager) Restore(scope, id string) (*Manifest, error) {
	manifest, err := m.Get(scope, id)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(scope, id)

	for _, f := range manifest.Files {
		hash, err := hashFile(filepath.Join(dir, f.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hash != f.SHA256 {
			return nil, errors.Wrapf(ErrBackupCorrupted, "%s hash mismatch", f.RelPath)
		}
	}

	for _, f := range manifest.Files {
		if err := paths.EnsureDir(filepath.Dir(f.OriginalPath), paths.ProjectDirPerm); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		data, err := os.ReadFile(filepath.Join(dir, f.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if err := fileutil.AtomicWriteFile(f.OriginalPath, data, f.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
	}
	return manifest, nil
}

// Scopes returns the scopes that have a backup directory, sorted.
func (m *Manager) Scopes() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var scopes []string
	for _, e := range entries {
		if e.IsDir() {
			scopes = append(scopes, e.Name())
		}
	}
	return scopes, nil
}

// List returns the backups of scope, newest first. Directories without a
// readable manifest are ignored.
func (m *Manager) List(scope string) ([]Manifest, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(m.rootDir, scope))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBackupsFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		manifest, err := m.Get(scope, e.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Get loads the manifest of one backup.
func (m *Manager) Get(scope, id string) (*Manifest, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, errors.Newf("invalid backup ID %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(scope, id), ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s/%s", scope, id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

// Prune keeps the newest keep backups of scope and removes the rest.
func (m *Manager) Prune(scope string, keep int) error {
	_, err := m.PruneIDs(scope, keep)
	return err
}

// PruneIDs is Prune returning the removed backup IDs.
func (m *Manager) PruneIDs(scope string, keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	manifests, err := m.List(scope)
	if errors.Is(err, ErrNoBackupsFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var removed []string
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(scope, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed = append(removed, manifests[i].ID)
	}
	return removed, nil
}

func (m *Manager) backupPath(scope, id string) string {
	return filepath.Join(m.rootDir, scope, id)
}

func validScope(scope string) error {
	if scope == "" || scope == "." || scope == ".." || strings.ContainsAny(scope, `/\`) {
		return errors.Wrapf(ErrInvalidScope, "%q", scope)
	}
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst and returns the content hash, size and the
// source permission bits.
func copyFile(src, dst string) (hash string, size int64, mode fs.FileMode, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "stat source file")
	}
	mode = info.Mode().Perm()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	size, err = io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		out.Close()
		return "", 0, 0, errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return "", 0, 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), size, mode, nil
}

// storagePath maps an absolute path to a relative path inside a backup.
// Volume names lose their colon so Windows paths stay valid.
func storagePath(abs string) string {
	clean := filepath.Clean(abs)
	if vol := filepath.VolumeName(clean); vol != "" {
		clean = strings.ReplaceAll(vol, ":", "") + clean[len(vol):]
	}
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, `/\`)
}
