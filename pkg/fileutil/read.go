package fileutil

import (
	"io"
	"os"

	"github.com/keboola/ai-kit/internal/errors"
)

// MaxFileSize is the default read limit. Lockfiles in a marketplace checkout
// can run to several megabytes, so the limit is generous.
const MaxFileSize = 16 << 20

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads a file of at most MaxFileSize bytes.
func ReadFileWithLimit(path string) ([]byte, error) {
	return ReadFileLimited(path, MaxFileSize)
}

// ReadFileLimited reads a file of at most limit bytes, returning
// ErrFileTooLarge for anything bigger.
func ReadFileLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Fail fast on regular files whose size is already known.
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes (limit %d)", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}

	return data, nil
}
