package marketplace

import (
	"slices"
	"strings"
)

// SearchOptions filters Search results.
type SearchOptions struct {
	// Kind filters by component kind. Empty matches all.
	Kind Kind
	// Plugin filters by plugin name. Empty matches all.
	Plugin string
}

// Match scores.
const (
	scoreExact       = 100
	scorePrefix      = 75
	scoreContains    = 50
	scoreDescription = 25
)

// Search returns components matching query, best matches first. Matching is
// case-insensitive on name and description; an empty query returns every
// component that passes the filters, in input order.
func Search(components []Component, query string, opts SearchOptions) []Component {
	query = strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		c     Component
		score int
	}
	var hits []scored
	for _, c := range components {
		if opts.Kind != "" && c.Kind != opts.Kind {
			continue
		}
		if opts.Plugin != "" && c.Plugin != opts.Plugin {
			continue
		}
		s := score(c, query)
		if query != "" && s == 0 {
			continue
		}
		hits = append(hits, scored{c, s})
	}

	slices.SortStableFunc(hits, func(a, b scored) int { return b.score - a.score })

	out := make([]Component, len(hits))
	for i, h := range hits {
		out[i] = h.c
	}
	return out
}

// score ranks exact name > name prefix > name substring > description.
func score(c Component, query string) int {
	if query == "" {
		return 0
	}
	name := strings.ToLower(c.Name)
	switch {
	case name == query:
		return scoreExact
	case strings.HasPrefix(name, query):
		return scorePrefix
	case strings.Contains(name, query):
		return scoreContains
	case strings.Contains(strings.ToLower(c.Description), query):
		return scoreDescription
	}
	return 0
}
