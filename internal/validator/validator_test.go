package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/ai-kit/internal/marketplace"
	"github.com/keboola/ai-kit/pkg/frontmatter"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "unknown", Severity(99).String())
}

func TestIssue_Error(t *testing.T) {
	i := Issue{Severity: SeverityError, Path: "skills/x/SKILL.md", Field: "name", Message: "is required", Value: ""}
	assert.Equal(t, `error: skills/x/SKILL.md: field "name": is required (got )`, i.Error())

	w := Issue{Severity: SeverityWarning, Message: "recommended description"}
	assert.Equal(t, "warning: recommended description", w.Error())
}

func TestResult(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.HasErrors())

	r := ForPath("a.md")
	r.AddInfo("", "note", nil)
	assert.False(t, r.HasErrors())
	assert.False(t, r.HasWarnings())

	r.AddWarning("model", "unknown", "gpt")
	other := ForPath("b.md")
	other.AddError("name", "is required", nil)
	r.Merge(other)
	r.Merge(nil)

	assert.True(t, r.HasErrors())
	assert.True(t, r.HasWarnings())
	require.Len(t, r.Errors(), 1)
	assert.Equal(t, "b.md", r.Errors()[0].Path)
	assert.Equal(t, "a.md", r.Warnings()[0].Path)
}

func fields(r *Result) []string {
	var out []string
	for _, i := range r.Issues {
		out = append(out, i.Severity.String()+":"+i.Field)
	}
	return out
}

func TestComponent(t *testing.T) {
	tests := []struct {
		name string
		c    marketplace.Component
		want []string
	}{
		{
			name: "valid agent",
			c: marketplace.Component{Kind: marketplace.KindAgent, Path: "p/agents/reviewer.md",
				Meta: map[string]any{"name": "reviewer", "description": "Reviews", "model": "sonnet", "tools": "Read, Grep"}},
		},
		{
			name: "agent without frontmatter",
			c:    marketplace.Component{Kind: marketplace.KindAgent, Path: "p/agents/plain.md"},
			want: []string{"error:frontmatter"},
		},
		{
			name: "agent with bad fields",
			c: marketplace.Component{Kind: marketplace.KindAgent,
				Meta: map[string]any{"name": "Code Reviewer", "description": 42, "model": "gpt-4", "tools": []any{"Read", 3}}},
			want: []string{"error:description", "warning:name", "warning:model", "error:tools"},
		},
		{
			name: "command without frontmatter",
			c:    marketplace.Component{Kind: marketplace.KindCommand, Path: "p/commands/push.md"},
			want: []string{"warning:description"},
		},
		{
			name: "command with bad hint",
			c: marketplace.Component{Kind: marketplace.KindCommand, Description: "Commit",
				Meta: map[string]any{"description": "Commit", "argument-hint": []any{"x"}, "allowed-tools": map[string]any{}}},
			want: []string{"error:argument-hint", "error:allowed-tools"},
		},
		{
			name: "valid skill",
			c: marketplace.Component{Kind: marketplace.KindSkill, Path: "p/skills/testing/SKILL.md",
				Meta: map[string]any{"name": "testing", "description": "Go testing"}},
		},
		{
			name: "skill name mismatch and too long description",
			c: marketplace.Component{Kind: marketplace.KindSkill, Path: "p/skills/testing/SKILL.md",
				Meta: map[string]any{"name": "go-testing", "description": strings.Repeat("x", 1025)}},
			want: []string{"warning:name", "error:description"},
		},
		{
			name: "skill with invalid name",
			c: marketplace.Component{Kind: marketplace.KindSkill, Path: "p/skills/Bad_Name/SKILL.md",
				Meta: map[string]any{"name": "Bad_Name", "description": "x"}},
			want: []string{"error:name"},
		},
		{
			name: "unreadable frontmatter",
			c:    marketplace.Component{Kind: marketplace.KindSkill, ParseErr: frontmatter.ErrMissing},
			want: []string{"error:frontmatter"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Component(tt.c)
			assert.Equal(t, tt.want, fields(r))
			for _, i := range r.Issues {
				assert.Equal(t, tt.c.Path, i.Path)
			}
		})
	}
}

func TestPluginManifest(t *testing.T) {
	entry := marketplace.Entry{Name: "developer", Version: "1.0.0"}

	tests := []struct {
		name string
		m    *marketplace.PluginManifest
		want []string
	}{
		{
			name: "valid",
			m: &marketplace.PluginManifest{Name: "developer", Version: "1.0.0", Description: "Dev",
				MCPServers: map[string]*marketplace.MCPServer{
					"keboola": {Command: "uvx", Env: map[string]string{"KBC_TOKEN": "${KBC_TOKEN}"}},
				}},
		},
		{name: "missing", m: nil, want: []string{"error:"}},
		{
			name: "name mismatch and bad version",
			m:    &marketplace.PluginManifest{Name: "dev", Version: "one", Description: "Dev"},
			want: []string{"error:name", "warning:version", "warning:version"},
		},
		{
			name: "servers",
			m: &marketplace.PluginManifest{Name: "developer", Version: "1.0.0", Description: "Dev",
				MCPServers: map[string]*marketplace.MCPServer{
					"empty":  {},
					"linear": {URL: "https://mcp.linear.app/sse", Headers: map[string]string{"Authorization": "Bearer lin_api_0123456789"}},
				}},
			want: []string{"error:mcpServers.empty", "warning:mcpServers.linear.headers.Authorization"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PluginManifest("plugins/developer/.claude-plugin/plugin.json", entry, tt.m)
			assert.Equal(t, tt.want, fields(r))
		})
	}
}

func TestPluginManifest_MasksSecretValue(t *testing.T) {
	m := &marketplace.PluginManifest{Name: "developer", Version: "1.0.0", Description: "Dev",
		MCPServers: map[string]*marketplace.MCPServer{"kbc": {Command: "uvx", Env: map[string]string{"KBC_TOKEN": "123-abcdefgh"}}}}

	r := PluginManifest("plugin.json", marketplace.Entry{Name: "developer"}, m)
	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, "****efgh", r.Warnings()[0].Value)
}
