// Package doctor runs health checks over a plugin marketplace repository.
package doctor

import (
	"time"

	"github.com/keboola/ai-kit/internal/errors"
)

// Severity orders check outcomes; a higher value is worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details holds check-specific context, e.g. "problems" or "versions".
	Details map[string]any `json:"details,omitempty"`

	// FixHint tells the user what to run or edit.
	FixHint string `json:"fix_hint,omitempty"`
}

// Raise moves the status to s unless it is already worse.
func (r *CheckResult) Raise(s Severity) {
	if s > r.Status {
		r.Status = s
	}
}

// Check is one diagnostic run by the Runner.
type Check interface {
	Name() string
	Category() string
	Run() *CheckResult
}

// Sentinels returned by Report.Err, mapped to exit codes 1 and 2.
var (
	ErrWarnings = errors.New("doctor found warnings")
	ErrErrors   = errors.New("doctor found errors")
)

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// Report is the result of a Runner pass.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors reports whether any check failed.
func (r *Report) HasErrors() bool { return r.Summary.Errors > 0 }

// HasWarnings reports whether any check warned.
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }

// Err returns ErrErrors, ErrWarnings or nil.
func (r *Report) Err() error {
	switch {
	case r.HasErrors():
		return ErrErrors
	case r.HasWarnings():
		return ErrWarnings
	}
	return nil
}

// Runner executes checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner returns an empty Runner.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// AddCheck registers c.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check. A nil result counts as a pass, and results
// missing a name or category inherit them from the check.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, check := range r.checks {
		result := check.Run()
		if result == nil {
			result = &CheckResult{Status: SeverityPass}
		}
		if result.Name == "" {
			result.Name = check.Name()
		}
		if result.Category == "" {
			result.Category = check.Category()
		}
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)
	}
	return report
}
