package plugin

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/errors"
)

func TestRunValidate_Passes(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runValidateWithWriter(t.Context(), &out, []string{"dataapps"}))
	assert.Equal(t, "✓ Validation passed\n", out.String())
}

func TestRunValidate_WarningsDoNotFail(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	var out bytes.Buffer
	require.NoError(t, runValidateWithWriter(t.Context(), &out, []string{"developer"}))
	assert.Contains(t, out.String(), "2 warning(s)")
	assert.Contains(t, out.String(), "looks like a hard-coded secret")
	assert.NotContains(t, out.String(), "secretvalue")
}

func TestRunValidate_Failures(t *testing.T) {
	root := useMarketplace(t)
	resetFlags(t)
	writeTree(t, root, map[string]string{
		"plugins/dataapps/skills/streamlit/SKILL.md": "---\nname: Streamlit Apps\n---\nBody\n",
	})

	var out bytes.Buffer
	err := runValidateWithWriter(t.Context(), &out, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, out.String(), "Validation failed")
	assert.Contains(t, out.String(), filepath.ToSlash("plugins/dataapps/skills/streamlit/SKILL.md"))
}

func TestRunValidate_SelectedPluginOnly(t *testing.T) {
	root := useMarketplace(t)
	resetFlags(t)
	writeTree(t, root, map[string]string{
		"plugins/dataapps/skills/streamlit/SKILL.md": "---\nname: Streamlit Apps\n---\nBody\n",
	})
	validateFormatFlag = "json"

	var out bytes.Buffer
	require.NoError(t, runValidateWithWriter(t.Context(), &out, []string{"developer"}))

	var got struct {
		Issues []struct {
			Severity string `json:"severity"`
			Path     string `json:"path"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	for _, i := range got.Issues {
		assert.NotEqual(t, "error", i.Severity, i.Path)
	}
}

func TestRunValidate_UnknownPlugin(t *testing.T) {
	useMarketplace(t)
	resetFlags(t)

	err := runValidateWithWriter(t.Context(), &bytes.Buffer{}, []string{"ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
