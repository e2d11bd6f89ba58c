package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (missing input, invalid arguments).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrMissingArgument indicates a required positional argument was not given.
	ErrMissingArgument = crdb.New("missing required argument")

	// ErrAborted indicates the user declined an interactive confirmation.
	ErrAborted = crdb.New("aborted")
)

// New returns an error with the given message and a stack trace.
func New(msg string) error { return crdb.New(msg) }

// Newf formats an error message and attaches a stack trace.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg. Returns nil when err is nil.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return crdb.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdb.As(err, target) }

// Join combines errs into one error; nil entries are dropped.
func Join(errs ...error) error { return crdb.Join(errs...) }

// ExitError wraps an error with an exit code and optional suggestion.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable hint for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError for an unreadable or invalid config file.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Check ~/.config/aikit/config.yaml or run: aikit doctor",
	}
}

// Error returns the message of the underlying error, or a generic message
// naming the exit code when there is none.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code carried by err. Errors without an
// ExitError in their chain map to ExitUser; nil maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}
