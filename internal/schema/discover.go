package schema

import (
	"os"
	"path/filepath"

	"github.com/keboola/ai-kit/internal/errors"
)

// Component directory layout.
const (
	ConfigDirName       = "component_config"
	ComponentSchemaFile = "configSchema.json"
	RowSchemaFile       = "configRowSchema.json"
	DataDirName         = "data"
	ConfigFileName      = "config.json"
	SrcDirName          = "src"
	ComponentScript     = "component.py"
)

// MaxSearchDepth bounds the upward search for component_config/.
const MaxSearchDepth = 10

var (
	// ErrComponentNotFound means no component_config/ was found.
	ErrComponentNotFound = errors.New("component_config/ not found")

	// ErrSchemaMissing means a required schema file is absent.
	ErrSchemaMissing = errors.New("schema file missing")
)

// Project is a discovered component directory.
type Project struct {
	Root string
	// ConfigDir is <Root>/component_config.
	ConfigDir string
	// ConfigJSON is <Root>/data/config.json, or empty when it does not exist.
	ConfigJSON string
}

// DataDir returns the KBC_DATADIR for the component.
func (p *Project) DataDir() string {
	return filepath.Join(p.Root, DataDirName)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks upward from start to the nearest directory that
// contains component_config/.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", start)
	}
	for range MaxSearchDepth {
		if isDir(filepath.Join(dir, ConfigDirName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.Wrapf(ErrComponentNotFound, "searching upward from %s", start)
}

// ResolveProjectRoot accepts the component_config/ folder itself, a
// component root, or any directory below a component root.
func ResolveProjectRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	if filepath.Base(abs) == ConfigDirName && isDir(abs) {
		return filepath.Dir(abs), nil
	}
	if isDir(filepath.Join(abs, ConfigDirName)) {
		return abs, nil
	}
	return FindProjectRoot(abs)
}

// Discover locates the component for path, or for cwd when path is empty,
// and checks both schema files exist.
func Discover(path, cwd string) (*Project, error) {
	var (
		root string
		err  error
	)
	if path != "" {
		root, err = ResolveProjectRoot(path)
	} else {
		root, err = FindProjectRoot(cwd)
	}
	if err != nil {
		return nil, err
	}

	p := &Project{Root: root, ConfigDir: filepath.Join(root, ConfigDirName)}
	for _, name := range []string{ComponentSchemaFile, RowSchemaFile} {
		if !exists(filepath.Join(p.ConfigDir, name)) {
			return nil, errors.Wrapf(ErrSchemaMissing, "%s not found in %s", name, p.ConfigDir)
		}
	}
	if cfg := filepath.Join(p.DataDir(), ConfigFileName); exists(cfg) {
		p.ConfigJSON = cfg
	}
	return p, nil
}
