package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/keboola/ai-kit/internal/errors"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// maxValueLen truncates long values in text reports.
const maxValueLen = 50

// Reporter writes Results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter returns a Reporter writing format to out.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report writes result. Text output groups issues by file.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding JSON report")
	}
	r.reportText(result)
	return nil
}

func (r *Reporter) reportText(result *Result) {
	errs, warns := result.Errors(), result.Warnings()
	if len(errs) == 0 && len(warns) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
		return
	}

	var summary []string
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warns) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warns)))
	}
	fmt.Fprintf(r.out, "Validation failed: %s\n", strings.Join(summary, ", "))

	var order []string
	byPath := map[string][]Issue{}
	for _, i := range result.Issues {
		if i.Severity == SeverityInfo {
			continue
		}
		if _, seen := byPath[i.Path]; !seen {
			order = append(order, i.Path)
		}
		byPath[i.Path] = append(byPath[i.Path], i)
	}

	for _, p := range order {
		fmt.Fprintln(r.out)
		if p != "" {
			fmt.Fprintln(r.out, color.New(color.Bold).Sprint(p))
		}
		for _, i := range byPath[p] {
			r.printIssue(i)
		}
	}
}

func (r *Reporter) printIssue(i Issue) {
	c := color.New(color.FgYellow)
	mark := "!"
	if i.Severity == SeverityError {
		c = color.New(color.FgRed)
		mark = "✗"
	}
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(c.Sprint(mark))
	sb.WriteString(" ")
	if i.Field != "" {
		sb.WriteString(c.Sprint(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		parts := make([]string, 0, len(i.Context))
		for k, v := range i.Context {
			parts = append(parts, k+"="+v)
		}
		slices.Sort(parts)
		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(parts, ", ")))
	}

	if i.Value != nil {
		val := fmt.Sprint(i.Value)
		if len(val) > maxValueLen {
			val = val[:maxValueLen-3] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", val))
	}
	fmt.Fprintln(r.out, sb.String())
}
