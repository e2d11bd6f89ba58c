package jsonv

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/keboola/ai-kit/internal/errors"
)

// ErrInvalidJSON is returned by Parse for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON")

// Kind identifies the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Span is a half-open byte range [Start, End) in the source document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Member is one key/value pair of an object.
type Member struct {
	Key     string
	KeySpan Span
	Value   *Value
}

// Value is one node of the tree. Only the fields matching Kind are set.
type Value struct {
	Kind Kind
	Span Span
	// Raw is the exact source text of the value.
	Raw string

	Bool    bool
	Num     float64
	Str     string
	Items   []*Value
	Members []Member
}

// Get returns the value of the first member named key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Parse builds the tree for data.
func Parse(data []byte) (*Value, error) {
	src := string(data)
	if !gjson.Valid(src) {
		return nil, ErrInvalidJSON
	}

	start := len(src) - len(strings.TrimLeft(src, " \t\r\n"))
	root := gjson.Parse(src)
	raw := strings.TrimRight(root.Raw, " \t\r\n")

	if start+len(raw) > len(src) || src[start:start+len(raw)] != raw {
		return nil, errors.Wrap(ErrInvalidJSON, "locating root value")
	}
	return build(src, root, raw, start)
}

// build converts r, whose text raw starts at byte abs of src.
// Child offsets are derived from gjson's Index relative to the parent, which
// stays exact even where gjson leaves the root Index at zero.
func build(src string, r gjson.Result, raw string, abs int) (*Value, error) {
	v := &Value{Span: Span{Start: abs, End: abs + len(raw)}, Raw: raw}

	switch r.Type {
	case gjson.Null:
		v.Kind = Null
	case gjson.False, gjson.True:
		v.Kind = Bool
		v.Bool = r.Type == gjson.True
	case gjson.Number:
		v.Kind = Number
		v.Num = r.Num
	case gjson.String:
		v.Kind = String
		v.Str = r.Str
	case gjson.JSON:
		isObject := strings.HasPrefix(raw, "{")
		if isObject {
			v.Kind = Object
		} else {
			v.Kind = Array
		}

		var err error
		r.ForEach(func(key, value gjson.Result) bool {
			childAbs, locErr := locate(src, abs, value.Index-r.Index, value.Raw)
			if locErr != nil {
				err = locErr
				return false
			}
			child, buildErr := build(src, value, value.Raw, childAbs)
			if buildErr != nil {
				err = buildErr
				return false
			}
			if !isObject {
				v.Items = append(v.Items, child)
				return true
			}
			keyAbs, locErr := locate(src, abs, key.Index-r.Index, key.Raw)
			if locErr != nil {
				err = locErr
				return false
			}
			v.Members = append(v.Members, Member{
				Key:     key.Str,
				KeySpan: Span{Start: keyAbs, End: keyAbs + len(key.Raw)},
				Value:   child,
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// locate finds raw at parentAbs+rel, searching forward from parentAbs when
// the expected position does not hold it.
func locate(src string, parentAbs, rel int, raw string) (int, error) {
	if pos := parentAbs + rel; rel >= 0 && pos+len(raw) <= len(src) && src[pos:pos+len(raw)] == raw {
		return pos, nil
	}
	if i := strings.Index(src[parentAbs:], raw); i >= 0 {
		return parentAbs + i, nil
	}
	return 0, errors.Wrapf(ErrInvalidJSON, "value %q not found in source", raw)
}
