package validator

import (
	"regexp"
	"strings"
)

// ToolPermission is one entry of a tools or allowed-tools list, such as
// Read or Bash(git add:*).
type ToolPermission struct {
	Name  string
	Scope string
}

// String returns the permission in its canonical form.
func (p ToolPermission) String() string {
	if p.Scope == "" {
		return p.Name
	}
	return p.Name + "(" + p.Scope + ")"
}

// Built-in tools are PascalCase; MCP tools use the mcp__server__tool form.
var toolPattern = regexp.MustCompile(`^([A-Z][a-zA-Z0-9]*|mcp__[a-zA-Z0-9_-]+)(?:\((.+)\))?$`)

// ParseToolPermission parses a single tool entry. ok is false when the entry
// does not look like a tool the host knows how to grant.
func ParseToolPermission(token string) (ToolPermission, bool) {
	m := toolPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return ToolPermission{}, false
	}
	return ToolPermission{Name: m[1], Scope: m[2]}, true
}

// SplitTools splits a tool list on commas and whitespace outside
// parentheses, so "Bash(git add:*), Read" yields two entries.
func SplitTools(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ',' || r == ' ' || r == '\t' || r == '\n'):
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}

func checkTool(r *Result, key, token string) {
	if _, ok := ParseToolPermission(token); !ok {
		r.AddWarning(key, "unrecognized tool (want Name or Name(scope), e.g. Read or Bash(git:*))", token)
	}
}
