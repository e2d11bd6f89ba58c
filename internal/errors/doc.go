// Package errors provides error handling conventions for the aikit CLI.
//
// It defines sentinel errors for common failure conditions, an [ExitError]
// type that carries a process exit code and an optional suggestion, and thin
// re-exports of [github.com/cockroachdb/errors] so callers only need a single
// errors import.
//
// # Exit Codes
//
//   - ExitSuccess (0): command completed successfully
//   - ExitUser (1): missing input, invalid arguments, broken plugin install
//   - ExitSystem (2): I/O or environment failures
//
// # ExitError
//
//	err := errors.NewUserError(errors.ErrTemplateNotFound, "Reinstall the plugin")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
