package audit

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	// ErrRecordNotFound indicates a lookup for an unknown record ID.
	ErrRecordNotFound = errors.New("audit record not found")

	// ErrRecorderClosed indicates a record was submitted after shutdown.
	ErrRecorderClosed = errors.New("audit recorder is closed")
)

// ExportError wraps a failure while exporting records.
type ExportError struct {
	Format  string
	Records int
	Cause   error
}

// Error returns the error message.
func (e *ExportError) Error() string {
	return fmt.Sprintf("audit export to %s failed after %d records: %v", e.Format, e.Records, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// StorageError wraps a backend failure with the operation that failed.
type StorageError struct {
	Op    string
	Cause error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
