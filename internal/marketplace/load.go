package marketplace

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/pkg/fileutil"
)

// MaxSearchDepth bounds the upward search for a marketplace root.
const MaxSearchDepth = 10

// ErrNoMarketplace is returned by FindRoot when no manifest is found.
var ErrNoMarketplace = errors.New("no .claude-plugin/marketplace.json found")

// ManifestPath returns the manifest location for root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestDir, ManifestFile)
}

// PluginManifestPath returns the plugin manifest location for a plugin dir.
func PluginManifestPath(dir string) string {
	return filepath.Join(dir, ManifestDir, PluginFile)
}

// FindRoot walks upward from start to the nearest directory holding a
// marketplace manifest.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", start)
	}

	for range MaxSearchDepth + 1 {
		if info, err := os.Stat(ManifestPath(dir)); err == nil && info.Mode().IsRegular() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.Wrapf(ErrNoMarketplace, "searching upward from %s", start)
}

// LoadManifest reads the marketplace manifest of root.
func LoadManifest(root string) (*Manifest, error) {
	path := ManifestPath(root)
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &m, nil
}

// LoadPluginManifest reads <dir>/.claude-plugin/plugin.json.
func LoadPluginManifest(dir string) (*PluginManifest, error) {
	path := PluginManifestPath(dir)
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var m PluginManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &m, nil
}

// Loader loads marketplaces.
type Loader struct {
	logger  *slog.Logger
	scanner *Scanner
}

// NewLoader returns a Loader logging to logger (nil discards).
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Loader{logger: logger, scanner: NewScanner(logger)}
}

// Load reads the manifest of root and every local plugin in it. Plugins are
// scanned concurrently; a plugin that fails to load is kept with LoadErr set
// so callers can report it.
func (l *Loader) Load(ctx context.Context, root string) (*Marketplace, error) {
	manifest, err := LoadManifest(root)
	if err != nil {
		return nil, err
	}

	m := &Marketplace{Root: root, Manifest: manifest, Plugins: make([]*Plugin, len(manifest.Plugins))}
	for i, e := range manifest.Plugins {
		p := &Plugin{Entry: e}
		if e.Source.Local() {
			p.Dir = filepath.Join(root, filepath.FromSlash(e.Source.Path))
		}
		m.Plugins[i] = p
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, p := range m.Plugins {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return nil, err
		}
		g.Go(func() error {
			l.loadPlugin(root, p)
			return nil
		})
	}
	_ = g.Wait()

	return m, nil
}

func (l *Loader) loadPlugin(root string, p *Plugin) {
	if p.Dir == "" {
		l.logger.Debug("skipping non-local plugin source", "plugin", p.Name, "source", p.Source.String())
		return
	}

	manifest, err := LoadPluginManifest(p.Dir)
	if err != nil {
		l.logger.Warn("failed to load plugin manifest", "plugin", p.Name, "error", err)
		p.LoadErr = err
	}
	p.Manifest = manifest

	components, err := l.scanner.ScanPlugin(root, p.Dir, p.Name)
	if err != nil {
		l.logger.Warn("failed to scan plugin", "plugin", p.Name, "error", err)
		if p.LoadErr == nil {
			p.LoadErr = err
		}
	}
	p.Components = components
}
