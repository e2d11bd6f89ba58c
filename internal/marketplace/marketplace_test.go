package marketplace

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/pkg/frontmatter"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// fixture builds a two-plugin marketplace plus one remote entry.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".claude-plugin/marketplace.json": `{
  "name": "keboola-claude-kit",
  "owner": {"name": "Keboola"},
  "plugins": [
    {"name": "developer", "source": "./plugins/developer", "description": "Dev tools", "version": "1.0.0"},
    {"name": "dataapp", "source": "./plugins/dataapp", "description": "Data apps"},
    {"name": "remote", "source": {"source": "github", "repo": "keboola/remote"}}
  ]
}`,
		"plugins/developer/.claude-plugin/plugin.json": `{
  "name": "developer",
  "version": "1.2.0",
  "description": "Developer tools",
  "mcpServers": {"keboola": {"command": "uvx", "args": ["keboola_mcp_server"], "env": {"KBC_TOKEN": "secret-token"}}},
  "keywords": ["go", "review"]
}`,
		"plugins/developer/agents/code-reviewer.md":    "---\nname: code-reviewer\ndescription: Reviews code\nmodel: sonnet\n---\nReview.\n",
		"plugins/developer/agents/plain.md":            "No frontmatter here.\n",
		"plugins/developer/agents/notes.txt":           "ignored",
		"plugins/developer/commands/commit.md":         "---\ndescription: Create a commit\nargument-hint: \"[message]\"\n---\nCommit.\n",
		"plugins/developer/commands/git/push.md":       "Push the branch.\n",
		"plugins/developer/skills/testing/SKILL.md":    "---\nname: testing\ndescription: Go testing guide\n---\n# Testing\n",
		"plugins/developer/skills/broken/SKILL.md":     "# no frontmatter\n",
		"plugins/developer/skills/empty-dir/README.md": "not a skill",
		"plugins/developer/templates/settings.json":    `{"allow": []}`,
		"plugins/dataapp/agents/streamlit.md":          "---\nname: streamlit\ndescription: Builds Streamlit data apps\n---\n",
	})
	return root
}

func TestFindRoot(t *testing.T) {
	root := fixture(t)

	got, err := FindRoot(filepath.Join(root, "plugins", "developer", "skills", "testing"))
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = FindRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = FindRoot(t.TempDir())
	assert.ErrorIs(t, err, ErrNoMarketplace)
}

func TestFindRoot_DepthLimit(t *testing.T) {
	root := fixture(t)
	deep := root
	for range MaxSearchDepth + 1 {
		deep = filepath.Join(deep, "d")
	}
	require.NoError(t, os.MkdirAll(deep, 0o755))

	_, err := FindRoot(deep)
	assert.ErrorIs(t, err, ErrNoMarketplace)
}

func TestLoad(t *testing.T) {
	root := fixture(t)

	m, err := NewLoader(logging.ForTest(t)).Load(t.Context(), root)
	require.NoError(t, err)

	assert.Equal(t, "keboola-claude-kit", m.Manifest.Name)
	require.Len(t, m.Plugins, 3)

	dev := m.Plugin("developer")
	require.NotNil(t, dev)
	require.NoError(t, dev.LoadErr)
	assert.Equal(t, "1.2.0", dev.Version(), "plugin.json wins over the entry")
	assert.Equal(t, "stdio", dev.Manifest.MCPServers["keboola"].Transport())
	assert.Contains(t, dev.Manifest.Extra, "keywords")

	var got []string
	for _, c := range dev.Components {
		got = append(got, string(c.Kind)+":"+c.Name)
	}
	assert.Equal(t, []string{
		"agent:code-reviewer", "agent:plain",
		"command:commit", "command:git:push",
		"skill:broken", "skill:testing",
	}, got)

	for _, c := range dev.Components {
		switch c.Name {
		case "broken":
			assert.ErrorIs(t, c.ParseErr, frontmatter.ErrMissing)
		case "code-reviewer":
			assert.Equal(t, "plugins/developer/agents/code-reviewer.md", c.Path)
			assert.Equal(t, "sonnet", c.Meta["model"])
		case "commit":
			assert.Equal(t, "Create a commit", c.Description)
		}
	}

	dataapp := m.Plugin("dataapp")
	require.NotNil(t, dataapp)
	assert.Error(t, dataapp.LoadErr, "missing plugin.json is reported on the plugin")
	assert.Len(t, dataapp.Components, 1)

	remote := m.Plugin("remote")
	require.NotNil(t, remote)
	assert.Empty(t, remote.Dir)
	assert.Equal(t, "github:keboola/remote", remote.Source.String())

	assert.Nil(t, m.Plugin("missing"))
	assert.Len(t, m.Components(), 7)
}

func TestLoad_Cancelled(t *testing.T) {
	root := fixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewLoader(nil).Load(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadManifest_Invalid(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".claude-plugin/marketplace.json": `{"plugins": [`})

	_, err := LoadManifest(root)
	assert.Error(t, err)
}

func TestPluginManifest_PreservesUnknownFields(t *testing.T) {
	in := `{"name":"dev","version":"1.0.0","homepage":"https://example.com","keywords":["a"]}`
	var m PluginManifest
	require.NoError(t, json.Unmarshal([]byte(in), &m))

	m.Version = "2.0.0"
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"dev","version":"2.0.0","homepage":"https://example.com","keywords":["a"]}`, string(out))
}

func TestSource_JSON(t *testing.T) {
	var s Source
	require.NoError(t, json.Unmarshal([]byte(`"./plugins/dev"`), &s))
	assert.True(t, s.Local())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"./plugins/dev"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"source":"url","url":"https://git.example.com/p.git"}`), &s))
	assert.False(t, s.Local())
	assert.Equal(t, "https://git.example.com/p.git", s.String())

	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"agent": KindAgent, "commands": KindCommand, "skills": KindSkill} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("mcp")
	assert.Error(t, err)
}
