// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Query errors
	ErrQuerySyntax      = "QUERY_SYNTAX"
	ErrQueryTranslation = "QUERY_TRANSLATION"
	ErrPathResolution   = "PATH_RESOLUTION"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnEntrySkipped = "ENTRY_SKIPPED"
	WarnUpdateFailed = "UPDATE_FAILED"
)
