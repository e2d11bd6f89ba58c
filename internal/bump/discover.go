package bump

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/keboola/ai-kit/internal/errors"
)

// skipDirs are never descended into.
var skipDirs = []string{"node_modules", ".git"}

// Discover returns every *.json file under root, sorted. Directories named
// node_modules or .git are skipped, and so is any path matching one of the
// doublestar exclude patterns (matched against the slash-separated path
// relative to root).
func Discover(root string, excludes []string) ([]string, error) {
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Newf("invalid exclude pattern %q", p)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (slices.Contains(skipDirs, d.Name()) || excluded(rel, excludes)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if excluded(rel, excludes) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", root)
	}

	slices.Sort(files)
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
