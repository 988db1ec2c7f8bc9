package bench

import "fmt"

// ValidationError reports malformed entry or measurement input: a missing
// measurement name, a non-finite value, or an unrecognized tool. The
// offending entry is rejected before it can reach a ledger, so a bad
// entry never leaves the ledger partially updated.
type ValidationError struct {
	Field   string // Input field that failed validation ("tool", "benches", ...)
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [field=%s]: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OutOfOrderError reports an append whose date precedes the ledger's
// current tail for that tool. It is surfaced to the caller and never
// auto-corrected: silently reordering would corrupt the as-observed
// ledger semantics.
type OutOfOrderError struct {
	Tool     Tool  // Tool whose history was violated
	Date     int64 // Rejected entry's date (epoch millis)
	TailDate int64 // Current tail date for the tool
}

// Error implements the error interface.
func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("out-of-order append [tool=%s]: entry date %d precedes ledger tail %d",
		e.Tool, e.Date, e.TailDate)
}

// NewOutOfOrderError creates a new OutOfOrderError.
func NewOutOfOrderError(tool Tool, date, tailDate int64) *OutOfOrderError {
	return &OutOfOrderError{Tool: tool, Date: date, TailDate: tailDate}
}

// ConfigurationError reports an aggregator invoked with an unrecognized
// tool polarity or an invalid window size. The detector raises it rather
// than guessing a default direction of improvement.
type ConfigurationError struct {
	Parameter string // Offending parameter ("window", "polarity", "threshold")
	Message   string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error [parameter=%s]: %s", e.Parameter, e.Message)
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(parameter, message string) *ConfigurationError {
	return &ConfigurationError{Parameter: parameter, Message: message}
}

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("append", "list", "count", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// CodecError represents a failure to decode or encode the persisted
// ledger document.
type CodecError struct {
	Operation string // "decode" or "encode"
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	return fmt.Sprintf("codec error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CodecError) Unwrap() error {
	return e.Cause
}

// NewCodecError creates a new CodecError.
func NewCodecError(operation string, cause error) *CodecError {
	return &CodecError{Operation: operation, Cause: cause}
}

// ExportError represents a failure to export series or report data.
type ExportError struct {
	Format string // Export format ("json", "csv")
	Rows   int    // Number of rows written before the failure
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, rows=%d]: %v", e.Format, e.Rows, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, rows int, cause error) *ExportError {
	return &ExportError{Format: format, Rows: rows, Cause: cause}
}
