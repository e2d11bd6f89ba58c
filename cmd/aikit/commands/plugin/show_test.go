package plugin

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/cli/prompt"
	"github.com/keboola/ai-kit/internal/errors"
)

func TestRunShow_Plugin(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(t.Context(), &out, "developer"))

	got := out.String()
	assert.Contains(t, got, "Version:     1.4.0")
	assert.Contains(t, got, "Author:      Keboola")
	assert.Contains(t, got, "Components:  1 agent(s), 1 command(s), 1 skill(s)")
	assert.Contains(t, got, "linear (stdio) npx -y linear-mcp")
	assert.Contains(t, got, "docs (http) https://docs.example.com/mcp")
	assert.Contains(t, got, "env REGION=eu")
	assert.Contains(t, got, "env LINEAR_API_KEY=****1234")
	assert.Contains(t, got, "header Authorization=****efgh")
	assert.NotContains(t, got, "secretvalue")
}

func TestRunShow_PluginJSONMasksSecrets(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	showFormat = formatJSON

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(t.Context(), &out, "developer"))

	var got pluginDetail
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "****1234", got.MCPServers["linear"].Env["LINEAR_API_KEY"])
	assert.Equal(t, map[string]int{"agent": 1, "command": 1, "skill": 1}, got.Components)
}

func TestRunShow_ComponentUnique(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(t.Context(), &out, "reviewer"))

	got := out.String()
	assert.Contains(t, got, "Agent: reviewer")
	assert.Contains(t, got, "Plugin:      developer")
	assert.Contains(t, got, "Path:        plugins/developer/agents/reviewer.md")
	assert.Contains(t, got, "tools: Read, Grep")
}

func TestRunShow_DuplicatePrompts(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var prompts bytes.Buffer
	newSelector = func() *prompt.Selector {
		return prompt.NewSelectorWithIO(strings.NewReader("2\n"), &prompts)
	}

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(t.Context(), &out, "deploy"))

	assert.Contains(t, prompts.String(), "[1] command deploy (developer)")
	assert.Contains(t, prompts.String(), "[2] skill deploy (developer)")
	assert.Contains(t, out.String(), "Skill: deploy")
}

func TestRunShow_KindNarrowsDuplicates(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	showKind = "command"

	var out bytes.Buffer
	require.NoError(t, runShowWithWriter(t.Context(), &out, "deploy"))
	assert.Contains(t, out.String(), "Command: deploy")
	assert.Contains(t, out.String(), "argument-hint: <env>")
}

func TestRunShow_SelectionCancelled(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	newSelector = func() *prompt.Selector {
		return prompt.NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	}

	err := runShowWithWriter(t.Context(), &bytes.Buffer{}, "deploy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompt.ErrSelectionCancelled))
}

func TestRunShow_NotFound(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	err := runShowWithWriter(t.Context(), &bytes.Buffer{}, "nothing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}
