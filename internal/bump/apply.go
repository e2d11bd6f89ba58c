package bump

import (
	"bytes"
	"regexp"

	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/jsonv"
)

// Strategy selects how version fields are located.
type Strategy string

const (
	Auto       Strategy = "auto"
	Structured Strategy = "structured"
	Text       Strategy = "text"
)

// ErrUnknownStrategy is returned by ParseStrategy.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy converts a flag or config value. An empty string means Auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", Auto:
		return Auto, nil
	case Structured, Text:
		return Strategy(s), nil
	}
	return "", errors.Wrapf(ErrUnknownStrategy, "%q (want auto, structured or text)", s)
}

// Status is the result of bumping one document.
type Status int

const (
	// Updated means Content differs from the input.
	Updated Status = iota
	// Unchanged means every version field already held the value.
	Unchanged
	// NoVersion means the document has no version field.
	NoVersion
	// Failed means Err is set and the document must not be written.
	Failed
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	case NoVersion:
		return "no version"
	default:
		return "failed"
	}
}

// Document is a file's path and bytes.
type Document struct {
	Path    string
	Content []byte
}

// Outcome describes what happened to one Document.
type Outcome struct {
	Path   string
	Status Status
	// Strategy is the strategy that produced Content. Structured or Text,
	// never Auto.
	Strategy Strategy
	// Fields is the number of version fields rewritten.
	Fields  int
	Content []byte
	Err     error
}

var textPattern = regexp.MustCompile(`("version"\s*:\s*")[^"]*(")`)

// Apply sets every version field of each document to version. It has no
// side effects; outcomes are returned in input order.
func Apply(docs []Document, version string, strategy Strategy) []Outcome {
	out := make([]Outcome, len(docs))
	for i, doc := range docs {
		out[i] = applyOne(doc, version, strategy)
	}
	return out
}

func applyOne(doc Document, version string, strategy Strategy) Outcome {
	switch strategy {
	case Text:
		return applyText(doc, version)
	case Structured:
		return applyStructured(doc, version)
	default:
		o := applyStructured(doc, version)
		if o.Status == Failed && errors.Is(o.Err, jsonv.ErrInvalidJSON) {
			return applyText(doc, version)
		}
		return o
	}
}

func applyStructured(doc Document, version string) Outcome {
	o := Outcome{Path: doc.Path, Strategy: Structured}

	root, err := jsonv.Parse(doc.Content)
	if err != nil {
		o.Status, o.Err = Failed, err
		return o
	}

	members := jsonv.MembersNamed(root, "version")
	if len(members) == 0 {
		o.Status = NoVersion
		return o
	}

	quoted := jsonv.Quote(version)
	edits := make([]jsonv.Edit, 0, len(members))
	for _, m := range members {
		edits = append(edits, jsonv.Edit{Span: m.Value.Span, Text: quoted})
	}

	content, err := jsonv.Splice(doc.Content, edits)
	if err != nil {
		o.Status, o.Err = Failed, err
		return o
	}
	return finish(o, doc, content, len(members))
}

func applyText(doc Document, version string) Outcome {
	o := Outcome{Path: doc.Path, Strategy: Text}

	loc := textPattern.FindSubmatchIndex(doc.Content)
	if loc == nil {
		o.Status = NoVersion
		return o
	}

	// loc[3] ends the prefix group, loc[4] starts the closing quote.
	content := make([]byte, 0, len(doc.Content)+len(version))
	content = append(content, doc.Content[:loc[3]]...)
	content = append(content, escapeText(version)...)
	content = append(content, doc.Content[loc[4]:]...)
	return finish(o, doc, content, 1)
}

// escapeText returns version as it must appear between quotes.
func escapeText(version string) string {
	quoted := jsonv.Quote(version)
	return quoted[1 : len(quoted)-1]
}

func finish(o Outcome, doc Document, content []byte, fields int) Outcome {
	o.Fields = fields
	o.Content = content
	if bytes.Equal(content, doc.Content) {
		o.Status = Unchanged
	} else {
		o.Status = Updated
	}
	return o
}
