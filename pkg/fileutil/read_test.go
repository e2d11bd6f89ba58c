package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/keboola/ai-kit/internal/errors"
)

func TestReadFileLimited(t *testing.T) {
	dir := t.TempDir()
	const limit = 64

	tests := []struct {
		name    string
		size    int64
		wantErr bool
	}{
		{"small file", 10, false},
		{"exact limit", limit, false},
		{"one byte over", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.Truncate(tt.size); err != nil {
				t.Fatal(err)
			}
			f.Close()

			data, err := ReadFileLimited(path, limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFileLimited() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrFileTooLarge) {
					t.Errorf("expected ErrFileTooLarge, got %v", err)
				}
				return
			}
			if int64(len(data)) != tt.size {
				t.Errorf("read %d bytes, want %d", len(data), tt.size)
			}
		})
	}
}

func TestReadFileWithLimit_Missing(t *testing.T) {
	if _, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
