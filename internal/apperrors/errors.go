package apperrors

import "errors"

// Source errors describe what the configured data source can or cannot do.
var (
	// ErrReadOnlySource indicates a mutation against the static JSON snapshot.
	ErrReadOnlySource = errors.New("data source is read-only")

	// ErrUnsupportedDriver indicates a DB_DRIVER value the service cannot open.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrUnsupportedSource indicates a DATA_SOURCE value other than database or static.
	ErrUnsupportedSource = errors.New("unsupported data source")

	// ErrMalformedSnapshot indicates the static JSON document is neither an array of
	// records nor an object with a data array.
	ErrMalformedSnapshot = errors.New("malformed stock data document")

	// ErrUnsupportedFileFormat indicates an import/export path with an unknown extension.
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
)

// Validation errors for request input.
var (
	ErrInvalidPage      = errors.New("page must be a positive integer")
	ErrInvalidLimit     = errors.New("limit must be a positive integer")
	ErrLimitTooLarge    = errors.New("limit exceeds maximum")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTradeCode = errors.New("trade_code is required")
)

// Operation failure errors are the user-facing messages for store failures. The
// wrapped cause is logged, never returned to the client.
var (
	ErrFailedToRetrieveStockData  = errors.New("failed to retrieve stock data")
	ErrFailedToRetrieveTradeCodes = errors.New("failed to retrieve trade codes")
	ErrFailedToAddRecord          = errors.New("failed to add record")
	ErrFailedToUpdateRecord       = errors.New("failed to update record")
	ErrFailedToDeleteRecord       = errors.New("failed to delete record")
	ErrRequestTimeout             = errors.New("request timed out")
)
