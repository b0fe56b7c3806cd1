package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Query errors
	ErrQueryInvalid = "QUERY_INVALID"

	// Screen errors
	ErrScreenNotFound = "SCREEN_NOT_FOUND"
	ErrScreenExists   = "SCREEN_EXISTS"
	ErrScreenReadOnly = "SCREEN_READ_ONLY"
	ErrScreenInvalid  = "SCREEN_INVALID"

	// Stock errors
	ErrStockNotFound = "STOCK_NOT_FOUND"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrDatasetInvalid = "DATASET_INVALID"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"
	ErrPostgresError = "POSTGRES_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnEmptyIndex    = "EMPTY_INDEX"
	WarnNoRows        = "NO_ROWS"
	WarnMissingValues = "MISSING_VALUES"
)
