package settings

import (
	"bytes"
	"encoding/json"

	"github.com/keboola/ai-kit/internal/errors"
)

// Permissions holds the host's permission lists. Entries are shell command
// prefixes such as "Bash(go test:*)" or file path globs.
type Permissions struct {
	Allow []string `json:"allow,omitempty"`
	Ask   []string `json:"ask,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// Document is a settings file. The lists may sit at the top level or under
// a "permissions" object; Effective merges both.
type Document struct {
	Permissions
	Nested *Permissions `json:"permissions,omitempty"`
}

// Effective returns the top-level lists followed by the nested ones.
func (d *Document) Effective() Permissions {
	p := Permissions{
		Allow: append([]string(nil), d.Allow...),
		Ask:   append([]string(nil), d.Ask...),
		Deny:  append([]string(nil), d.Deny...),
	}
	if d.Nested != nil {
		p.Allow = append(p.Allow, d.Nested.Allow...)
		p.Ask = append(p.Ask, d.Nested.Ask...)
		p.Deny = append(p.Deny, d.Nested.Deny...)
	}
	return p
}

// ErrInvalidDocument wraps every ParseDocument failure.
var ErrInvalidDocument = errors.New("invalid settings document")

// ParseDocument decodes a settings file. It fails when the content is not a
// JSON object or a permission list is not an array of strings.
func ParseDocument(data []byte) (*Document, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.Wrap(ErrInvalidDocument, "settings must be a JSON object")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "%v", err)
	}
	return &doc, nil
}

// Conflicts returns patterns that appear in both the allow and deny lists.
func (p Permissions) Conflicts() []string {
	deny := make(map[string]bool, len(p.Deny))
	for _, d := range p.Deny {
		deny[d] = true
	}
	var out []string
	for _, a := range p.Allow {
		if deny[a] {
			out = append(out, a)
		}
	}
	return out
}
