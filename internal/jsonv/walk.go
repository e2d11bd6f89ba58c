package jsonv

import (
	"strconv"
	"strings"
)

// Path addresses a value from the root: object keys and array indexes.
type Path []string

// String renders the path in gjson syntax ("plugins.0.version").
func (p Path) String() string {
	escaped := make([]string, len(p))
	for i, seg := range p {
		escaped[i] = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(seg)
	}
	return strings.Join(escaped, ".")
}

// Visitor is called for every value in depth-first order. Returning false
// skips the children of v.
type Visitor func(path Path, v *Value) bool

// Walk visits v and its descendants. Members are visited in source order.
func Walk(v *Value, visit Visitor) {
	walk(nil, v, visit)
}

func walk(path Path, v *Value, visit Visitor) {
	if v == nil || !visit(path, v) {
		return
	}
	switch v.Kind {
	case Array:
		for i, item := range v.Items {
			walk(append(path[:len(path):len(path)], strconv.Itoa(i)), item, visit)
		}
	case Object:
		for _, m := range v.Members {
			walk(append(path[:len(path):len(path)], m.Key), m.Value, visit)
		}
	}
}

// MembersNamed returns every object member named key at any depth. Members
// found inside a matched value are not reported.
func MembersNamed(root *Value, key string) []Member {
	var found []Member
	Walk(root, func(_ Path, v *Value) bool {
		if v.Kind != Object {
			return true
		}
		for _, m := range v.Members {
			if m.Key == key {
				found = append(found, m)
			}
		}
		return true
	})
	return pruneNested(found)
}

// pruneNested drops members whose value lies inside an earlier member's value.
func pruneNested(ms []Member) []Member {
	out := ms[:0]
	for _, m := range ms {
		nested := false
		for _, kept := range out {
			if m.KeySpan.Start >= kept.Value.Span.Start && m.Value.Span.End <= kept.Value.Span.End {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, m)
		}
	}
	return out
}
