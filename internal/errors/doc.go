// Package errors provides error handling conventions for aigrid.
//
// It re-exports the wrapping helpers of [github.com/cockroachdb/errors] so
// that callers import a single errors package, and defines the sentinel
// errors used to classify configuration failures:
//
//   - [ErrMissingFile]: a configuration file does not exist
//   - [ErrParseFailure]: a configuration file is not valid JSON
//   - [ErrSchemaViolation]: the merged document failed schema validation
//   - [ErrWriteFailure]: a configuration file could not be written
//
// Callers check the failure class with [Is]:
//
//	doc, issues, err := st.Load()
//	if errors.Is(err, aigriderrors.ErrSchemaViolation) {
//	    // report issues
//	}
//
// # Exit Codes
//
// [ExitError] wraps an error with a process exit code and an optional
// suggestion printed by the CLI:
//
//   - ExitSuccess (0): command completed successfully
//   - ExitUser (1): invalid input or configuration
//   - ExitSystem (2): I/O or other system failure
package errors
