package cli

import (
	"errors"
	"fmt"
)

// ExitError carries a process exit code alongside the underlying error. The
// scan command uses it to distinguish "ran fine, input is non-compliant"
// from operational failures.
type ExitError struct {
	// Code is the process exit status.
	Code int

	// Err is the underlying error, may be nil when only the code matters.
	Err error
}

// Error returns the error message.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit creates an ExitError with the given code and message.
func Exit(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error to a process exit status: nil is 0, an ExitError
// (anywhere in the chain) keeps its code, anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
