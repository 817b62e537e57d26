// Package errors provides error handling conventions for the folco backend.
//
// The package re-exports the constructors and inspectors of
// [github.com/cockroachdb/errors] so callers import a single errors package,
// defines sentinel errors shared across packages, and provides an ExitError
// type for CLI exit code handling.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, folcoerrors.ErrUnknownCommand) {
//	    // handle unknown command
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (platform resource, I/O, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := folcoerrors.NewSystemError(err, "Run: folco doctor")
//	var exitErr *folcoerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
