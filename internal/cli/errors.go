package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrRootNotFound  = "ROOT_NOT_FOUND"
	ErrConfigInvalid = "CONFIG_INVALID"

	ErrTypeNotFound = "TYPE_NOT_FOUND"

	ErrFileExists     = "FILE_EXISTS"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrFileLocked     = "FILE_LOCKED"

	// ErrValidationFailed is returned when an audit completes with a failing
	// status. The envelope still carries the full report.
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrIndexStale       = "INDEX_STALE"
	ErrManifestStale    = "MANIFEST_STALE"
	ErrURLCheckFailed   = "URL_CHECK_FAILED"

	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrInternal        = "INTERNAL_ERROR"
)
