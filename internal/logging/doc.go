// Package logging provides structured logging for the aikit CLI using slog.
//
// Text output goes through [Handler], a compact colorized handler that masks
// secret-looking attributes. JSON output uses the standard library handler.
// [MultiHandler] fans records out to several handlers, which the root
// command uses for --log-file.
//
// The active logger travels in the command context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Debug("discovered files", "count", n)
//
// Tests use [ForTest] so output only appears for failing tests.
package logging
