package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/keboola/ai-kit/internal/marketplace"
)

func TestSplitTools(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Read", []string{"Read"}},
		{"Read, Grep", []string{"Read", "Grep"}},
		{"Read Grep\tGlob", []string{"Read", "Grep", "Glob"}},
		{"Bash(git add:*), Bash(git status:*)", []string{"Bash(git add:*)", "Bash(git status:*)"}},
		{" ,Read,, ", []string{"Read"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTools(tt.in))
		})
	}
}

func TestParseToolPermission(t *testing.T) {
	tests := []struct {
		token string
		want  ToolPermission
		ok    bool
	}{
		{"Read", ToolPermission{Name: "Read"}, true},
		{"Bash(git add:*)", ToolPermission{Name: "Bash", Scope: "git add:*"}, true},
		{"mcp__linear__create_issue", ToolPermission{Name: "mcp__linear__create_issue"}, true},
		{" WebFetch(domain:keboola.com) ", ToolPermission{Name: "WebFetch", Scope: "domain:keboola.com"}, true},
		{"read", ToolPermission{}, false},
		{"Bash()", ToolPermission{}, false},
		{"Bash(git", ToolPermission{}, false},
		{"", ToolPermission{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ParseToolPermission(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolPermission_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := ToolPermission{
			Name:  rapid.StringMatching(`[A-Z][a-zA-Z0-9]{0,10}`).Draw(t, "name"),
			Scope: rapid.StringMatching(`([a-z:* ]{1,12})?`).Draw(t, "scope"),
		}
		got, ok := ParseToolPermission(p.String())
		if !ok {
			t.Fatalf("ParseToolPermission(%q) rejected a canonical permission", p.String())
		}
		if got != p {
			t.Fatalf("round trip = %+v, want %+v", got, p)
		}
	})
}

func TestComponent_ToolWarnings(t *testing.T) {
	r := Component(componentWithTools("Read, bash, Bash(npm test:*)"))
	assert.Equal(t, []string{"warning:allowed-tools"}, fields(r))
	assert.Equal(t, "bash", r.Warnings()[0].Value)
}

func componentWithTools(tools string) marketplace.Component {
	return marketplace.Component{
		Kind:        marketplace.KindCommand,
		Path:        "p/commands/test.md",
		Description: "Runs tests",
		Meta:        map[string]any{"description": "Runs tests", "allowed-tools": tools},
	}
}
