// Package fileutil provides file system helpers shared by aikit commands:
// atomic writes that never leave a half-written manifest behind, and
// size-limited reads for files that come from untrusted checkouts.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/keboola/ai-kit/internal/errors"
)

// AtomicWriteFile writes data to path using a temp file in the same
// directory followed by a rename, so an interrupted write leaves the previous
// contents intact. The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".aikit-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		// Only present if the rename did not happen.
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}

	return nil
}

// RewriteFile atomically replaces the contents of an existing file while
// keeping its permission bits.
func RewriteFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "stat target file")
	}
	return AtomicWriteFile(path, data, info.Mode().Perm())
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
// The file is created with 0644 permissions.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	data = append(data, '\n')

	return AtomicWriteFile(path, data, 0o644)
}
