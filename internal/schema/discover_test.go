package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newComponent(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"component_config/configSchema.json":    `{"type": "object", "properties": {"zeta": {"type": "string"}, "alpha": {"type": "integer"}}}`,
		"component_config/configRowSchema.json": `{"type": "object"}`,
		"src/deep/nested/file.py":               "",
	})
	return root
}

func TestDiscover(t *testing.T) {
	root := newComponent(t)
	rootAbs, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		cwd  string
	}{
		{name: "component root", path: root},
		{name: "component_config folder", path: filepath.Join(root, "component_config")},
		{name: "child directory", path: filepath.Join(root, "src", "deep")},
		{name: "auto-discovery from cwd", cwd: filepath.Join(root, "src", "deep", "nested")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Discover(tt.path, tt.cwd)
			require.NoError(t, err)

			got, err := filepath.EvalSymlinks(p.Root)
			require.NoError(t, err)
			assert.Equal(t, rootAbs, got)
			assert.Equal(t, filepath.Join(p.Root, ConfigDirName), p.ConfigDir)
			assert.Empty(t, p.ConfigJSON)
		})
	}
}

func TestDiscover_ConfigJSON(t *testing.T) {
	root := newComponent(t)
	writeFiles(t, root, map[string]string{"data/config.json": `{"parameters": {}}`})

	p, err := Discover(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data", "config.json"), p.ConfigJSON)
	assert.Equal(t, filepath.Join(root, "data"), p.DataDir())
}

func TestDiscover_Errors(t *testing.T) {
	t.Run("no component", func(t *testing.T) {
		_, err := Discover(t.TempDir(), "")
		assert.ErrorIs(t, err, ErrComponentNotFound)
	})

	t.Run("missing row schema", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"component_config/configSchema.json": `{}`})

		_, err := Discover(root, "")
		assert.ErrorIs(t, err, ErrSchemaMissing)
		assert.Contains(t, err.Error(), RowSchemaFile)
	})

	t.Run("deeper than search depth", func(t *testing.T) {
		root := newComponent(t)
		deep := root
		for range MaxSearchDepth + 1 {
			deep = filepath.Join(deep, "d")
		}
		require.NoError(t, os.MkdirAll(deep, 0o755))

		_, err := FindProjectRoot(deep)
		assert.ErrorIs(t, err, ErrComponentNotFound)
	})
}
