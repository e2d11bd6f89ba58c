package plugin

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/marketplace"
)

func TestRunSearch_RanksNameMatches(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	searchFormat = formatJSON

	var out bytes.Buffer
	require.NoError(t, runSearchWithWriter(t.Context(), &out, "deploy"))

	got := decodeComponents(t, out.Bytes())
	require.Len(t, got, 2)
	assert.Equal(t, marketplace.KindCommand, got[0].Kind)
	assert.Equal(t, marketplace.KindSkill, got[1].Kind)
}

func TestRunSearch_DescriptionMatch(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runSearchWithWriter(t.Context(), &out, "streamlit apps"))

	assert.Contains(t, out.String(), "KIND")
	assert.Contains(t, out.String(), "streamlit")
	assert.NotContains(t, out.String(), "reviewer")
}

func TestRunSearch_NoResults(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runSearchWithWriter(t.Context(), &out, "kubernetes"))
	assert.Equal(t, "No components found.\n", out.String())
}

func TestRunSearch_Interactive(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	searchInteractive = true

	var offered []marketplace.Component
	findComponent = func(components []marketplace.Component) (int, error) {
		offered = components
		return len(components) - 1, nil
	}

	var out bytes.Buffer
	require.NoError(t, runSearchWithWriter(t.Context(), &out, ""))

	assert.Len(t, offered, 4)
	assert.Contains(t, out.String(), "Selected: streamlit (skill)")
	assert.Contains(t, out.String(), "Plugin: dataapps")
}

func TestRunSearch_InteractiveAbort(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)
	searchInteractive = true
	findComponent = func([]marketplace.Component) (int, error) {
		return 0, fuzzyfinder.ErrAbort
	}

	var out bytes.Buffer
	require.NoError(t, runSearchWithWriter(t.Context(), &out, ""))
	assert.Empty(t, out.String())
}

func decodeComponents(t *testing.T, data []byte) []marketplace.Component {
	t.Helper()
	var got componentsOutput
	require.NoError(t, json.Unmarshal(data, &got))
	return got.Components
}
