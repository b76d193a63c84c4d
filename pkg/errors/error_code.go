package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTimestamp     ErrorCode = 102
	ErrCodeInvalidVersion       ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104

	// Store errors (200-299)
	ErrCodeUnknownSymbol ErrorCode = 200
	ErrCodeDataNotFound  ErrorCode = 201

	// Import and export errors (300-399)
	ErrCodeImportFailed      ErrorCode = 300
	ErrCodeParseFailed       ErrorCode = 301
	ErrCodeUnsupportedFormat ErrorCode = 302
	ErrCodeImportCanceled    ErrorCode = 303
	ErrCodeExportFailed      ErrorCode = 304
)
