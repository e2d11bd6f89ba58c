package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/cli/prompt"
	"github.com/keboola/ai-kit/internal/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// useMarketplace writes a two-plugin marketplace and points --root at it.
// "deploy" exists as both a command and a skill of the developer plugin.
func useMarketplace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".claude-plugin/marketplace.json": `{"name": "keboola", "plugins": [
  {"name": "developer", "source": "./plugins/developer", "description": "Developer tools"},
  {"name": "dataapps", "source": "./plugins/dataapps"},
  {"name": "remote", "source": {"source": "github", "repo": "keboola/remote"}}
]}`,
		"plugins/developer/.claude-plugin/plugin.json": `{
  "name": "developer",
  "version": "1.4.0",
  "description": "Developer tools",
  "author": {"name": "Keboola"},
  "mcpServers": {
    "linear": {"command": "npx", "args": ["-y", "linear-mcp"], "env": {"LINEAR_API_KEY": "lin_api_secretvalue1234", "REGION": "eu"}},
    "docs": {"type": "http", "url": "https://docs.example.com/mcp", "headers": {"Authorization": "Bearer abcdefgh"}}
  }
}`,
		"plugins/developer/agents/reviewer.md":        "---\nname: reviewer\ndescription: Reviews changes\ntools: [Read, Grep]\n---\nReview.\n",
		"plugins/developer/commands/deploy.md":        "---\ndescription: Deploy the app\nargument-hint: <env>\n---\nDeploy.\n",
		"plugins/developer/skills/deploy/SKILL.md":    "---\nname: deploy\ndescription: Deployment know-how\n---\nBody\n",
		"plugins/dataapps/.claude-plugin/plugin.json": `{"name": "dataapps", "version": "0.3.0", "description": "Data apps"}`,
		"plugins/dataapps/skills/streamlit/SKILL.md":  "---\nname: streamlit\ndescription: Build Streamlit apps\n---\nBody\n",
	})

	flags.SetRoot(root)
	flags.SetConfig(config.Default())
	t.Cleanup(func() {
		flags.SetRoot("")
		flags.SetConfig(nil)
	})
	return root
}

func resetFlags(t *testing.T) {
	t.Helper()
	restoreSelector, restoreFinder := newSelector, findComponent
	t.Cleanup(func() {
		listKind, listPlugin, listFormat = "", "", formatText
		showKind, showPlugin, showFormat = "", "", formatText
		searchKind, searchPlugin, searchFormat, searchInteractive = "", "", formatText, false
		validateFormatFlag = "text"
		newSelector, findComponent = restoreSelector, restoreFinder
	})
	newSelector = func() *prompt.Selector {
		t.Fatal("unexpected prompt")
		return nil
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer description", 10, "a longe..."},
		{"multi\nline   text", 20, "multi line text"},
		{"žluťoučký kůň", 8, "žluťo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}
