package jsonv

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/keboola/ai-kit/internal/errors"
)

// ErrOverlappingEdits is returned by Splice when two edits cover common bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit replaces the bytes of Span with Text.
type Edit struct {
	Span Span
	Text string
}

// Splice applies edits to src and returns a new slice. Edits are applied
// from the end of the document backwards so earlier spans stay valid.
func Splice(src []byte, edits []Edit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int { return a.Span.Start - b.Span.Start })

	for i, e := range sorted {
		if e.Span.Start < 0 || e.Span.End > len(src) || e.Span.Start > e.Span.End {
			return nil, errors.Newf("edit span [%d,%d) outside document of %d bytes", e.Span.Start, e.Span.End, len(src))
		}
		if i > 0 && e.Span.Start < sorted[i-1].Span.End {
			return nil, ErrOverlappingEdits
		}
	}

	out := slices.Clone(src)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		out = slices.Concat(out[:e.Span.Start], []byte(e.Text), out[e.Span.End:])
	}
	return out, nil
}

// Quote renders s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // encoding a string cannot fail
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
