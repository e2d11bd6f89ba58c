package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/marketplace"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func healthyTree() map[string]string {
	return map[string]string{
		".claude-plugin/marketplace.json": `{
  "name": "keboola",
  "plugins": [
    {"name": "developer", "source": "./plugins/developer", "version": "1.2.0"}
  ]
}`,
		"plugins/developer/.claude-plugin/plugin.json": `{"name": "developer", "version": "1.2.0", "description": "Developer tools"}`,
		"plugins/developer/agents/reviewer.md":         "---\nname: reviewer\ndescription: Reviews changes\nmodel: sonnet\n---\nReview.\n",
		"plugins/developer/skills/testing/SKILL.md":    "---\nname: testing\ndescription: Go testing\n---\nBody\n",
		"plugins/developer/templates/settings.json":    `{"permissions": {"allow": ["Bash(go test:*)"], "deny": ["Bash(rm -rf:*)"]}}`,
	}
}

func load(t *testing.T, root string) *marketplace.Marketplace {
	t.Helper()
	mp, err := marketplace.NewLoader(nil).Load(context.Background(), root)
	require.NoError(t, err)
	return mp
}

func runAll(t *testing.T, root string, mp *marketplace.Marketplace) map[string]*CheckResult {
	t.Helper()
	r := NewRunner()
	for _, c := range Standard(root, mp, nil) {
		r.AddCheck(c)
	}
	out := map[string]*CheckResult{}
	for _, res := range r.Run().Results {
		out[res.Name] = res
	}
	return out
}

func TestStandard_Healthy(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, healthyTree())

	results := runAll(t, root, load(t, root))
	require.Len(t, results, 5)
	for name, res := range results {
		assert.Equal(t, SeverityPass, res.Status, "%s: %s %v", name, res.Message, res.Details)
	}
	assert.Equal(t, "all version fields are 1.2.0", results["version-consistency"].Message)
	assert.Equal(t, "2 component(s) valid", results["components"].Message)
}

func TestStandard_NoMarketplace(t *testing.T) {
	results := runAll(t, t.TempDir(), nil)

	assert.Equal(t, SeverityError, results["marketplace-manifest"].Status)
	for _, name := range []string{"plugin-manifests", "components", "settings-templates"} {
		assert.Equal(t, SeverityInfo, results[name].Status, name)
	}
	assert.Equal(t, SeverityInfo, results["version-consistency"].Status)
}

func TestManifestCheck_Problems(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".claude-plugin/marketplace.json": `{"name": "x", "plugins": [
  {"name": "a", "source": "./plugins/a"},
  {"name": "a", "source": "./plugins/missing"},
  {"source": {"source": "github", "repo": "keboola/other"}},
  {"name": "b"}
]}`,
		"plugins/a/README.md": "a",
	})

	res := NewManifestCheck(root).Run()
	require.Equal(t, SeverityError, res.Status)
	assert.Equal(t, []string{
		"a: duplicate plugin name",
		"a: source ./plugins/missing is not a directory",
		"plugins[2]: missing name",
		"b: missing source",
	}, res.Details["problems"])
}

func TestManifestCheck_Empty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".claude-plugin/marketplace.json": `{"name": "x", "plugins": []}`})

	assert.Equal(t, SeverityWarning, NewManifestCheck(root).Run().Status)
}

func TestPluginManifestCheck(t *testing.T) {
	t.Run("name mismatch", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		tree["plugins/developer/.claude-plugin/plugin.json"] = `{"name": "dev", "version": "1.2.0", "description": "x"}`
		writeTree(t, root, tree)

		res := NewPluginManifestCheck(load(t, root)).Run()
		assert.Equal(t, SeverityError, res.Status)
		assert.Contains(t, res.Details["issues"].([]string)[0], "plugins/developer/.claude-plugin/plugin.json")
	})

	t.Run("missing plugin.json", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		delete(tree, "plugins/developer/.claude-plugin/plugin.json")
		writeTree(t, root, tree)

		res := NewPluginManifestCheck(load(t, root)).Run()
		assert.Equal(t, SeverityError, res.Status)
		assert.Contains(t, res.Details["issues"].([]string)[0], "plugin.json is missing")
	})

	t.Run("unparsable plugin.json", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		tree["plugins/developer/.claude-plugin/plugin.json"] = `{"name": `
		writeTree(t, root, tree)

		res := NewPluginManifestCheck(load(t, root)).Run()
		assert.Equal(t, SeverityError, res.Status)
		assert.Contains(t, res.Details["issues"].([]string)[0], "cannot parse plugin.json")
	})
}

func TestComponentCheck_Invalid(t *testing.T) {
	root := t.TempDir()
	tree := healthyTree()
	tree["plugins/developer/agents/broken.md"] = "---\ndescription: no name\n---\n"
	writeTree(t, root, tree)

	res := NewComponentCheck(load(t, root)).Run()
	assert.Equal(t, SeverityError, res.Status)
	assert.Equal(t, "1 error(s), 0 warning(s) across 3 component(s)", res.Message)
}

func TestSettingsTemplateCheck(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     Severity
	}{
		{name: "invalid json", template: `{"permissions": `, want: SeverityError},
		{name: "list of numbers", template: `{"allow": [1, 2]}`, want: SeverityError},
		{name: "null template", template: `null`, want: SeverityError},
		{name: "conflict", template: `{"allow": ["Bash(ls:*)"], "permissions": {"deny": ["Bash(ls:*)"]}}`, want: SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tree := healthyTree()
			tree["plugins/developer/templates/settings.json"] = tt.template
			writeTree(t, root, tree)

			assert.Equal(t, tt.want, NewSettingsTemplateCheck(load(t, root)).Run().Status)
		})
	}

	t.Run("no templates", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		delete(tree, "plugins/developer/templates/settings.json")
		writeTree(t, root, tree)

		assert.Equal(t, SeverityInfo, NewSettingsTemplateCheck(load(t, root)).Run().Status)
	})
}

func TestVersionCheck(t *testing.T) {
	t.Run("drift", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		tree["plugins/developer/.claude-plugin/plugin.json"] = `{"name": "developer", "version": "1.3.0", "description": "x"}`
		writeTree(t, root, tree)

		res := NewVersionCheck(root, nil).Run()
		assert.Equal(t, SeverityWarning, res.Status)
		assert.Equal(t, "2 distinct versions: 1.2.0 (1 file(s)), 1.3.0 (1 file(s))", res.Message)
		assert.NotEmpty(t, res.FixHint)
	})

	t.Run("excluded drift", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		tree["node_modules/dep/package.json"] = `{"version": "9.9.9"}`
		tree["vendor/pkg.json"] = `{"version": "0.0.1"}`
		writeTree(t, root, tree)

		res := NewVersionCheck(root, []string{"vendor/**"}).Run()
		assert.Equal(t, SeverityPass, res.Status)
	})

	t.Run("invalid json", func(t *testing.T) {
		root := t.TempDir()
		tree := healthyTree()
		tree["broken.json"] = `{"version": "1.2.0",}`
		writeTree(t, root, tree)

		res := NewVersionCheck(root, nil).Run()
		assert.Equal(t, SeverityWarning, res.Status)
		assert.Equal(t, []string{"broken.json"}, res.Details["unparsed"])
	})
}
