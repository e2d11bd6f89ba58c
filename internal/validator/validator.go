package validator

import (
	"fmt"
	"strings"
)

// Severity is the impact of an Issue.
type Severity int

const (
	// SeverityError marks a component the host cannot use.
	SeverityError Severity = iota
	// SeverityWarning marks a likely mistake that does not block loading.
	SeverityWarning
	// SeverityInfo is informational.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue is one validation problem.
type Issue struct {
	Severity Severity `json:"severity"`
	// Path is the file the issue was found in, relative to the marketplace root.
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	// Context carries extra key/value detail, such as the plugin name.
	Context map[string]string `json:"context,omitempty"`
}

func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Path != "" {
		sb.WriteString(i.Path)
		sb.WriteString(": ")
	}
	if i.Field != "" {
		fmt.Fprintf(&sb, "field %q: ", i.Field)
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result collects issues.
type Result struct {
	Issues []Issue `json:"issues"`

	// path is stamped on every issue added afterwards.
	path string
}

// ForPath returns an empty Result that records path on each issue.
func ForPath(path string) *Result {
	return &Result{path: path}
}

func (r *Result) add(s Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{Severity: s, Path: r.path, Field: field, Message: message, Value: value})
}

// AddError records a blocking issue.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning records a non-blocking issue.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

// AddInfo records a note.
func (r *Result) AddInfo(field, message string, value any) {
	r.add(SeverityInfo, field, message, value)
}

// Merge appends the issues of other.
func (r *Result) Merge(other *Result) {
	if other != nil {
		r.Issues = append(r.Issues, other.Issues...)
	}
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// HasErrors reports whether any issue is an error.
func (r *Result) HasErrors() bool { return len(r.filter(SeverityError)) > 0 }

// HasWarnings reports whether any issue is a warning.
func (r *Result) HasWarnings() bool { return len(r.filter(SeverityWarning)) > 0 }

// Errors returns the error issues.
func (r *Result) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning issues.
func (r *Result) Warnings() []Issue { return r.filter(SeverityWarning) }
