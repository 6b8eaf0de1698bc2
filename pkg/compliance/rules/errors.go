package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors.
var (
	// ErrNoRuleFiles indicates a rules directory contained no rule files.
	ErrNoRuleFiles = errors.New("no rule files found")
)

// ValidationError indicates a malformed rule definition. It is fatal to the
// framework file that contains the rule but does not prevent other framework
// files from loading.
type ValidationError struct {
	// Source is the file (or other source name) the rule came from.
	Source string

	// RuleID is the offending rule's ID, if it had one.
	RuleID string

	// Field is the field that failed validation, if attributable.
	Field string

	// Message describes the problem.
	Message string

	// Cause is the underlying error, if any (e.g. a regex compile error).
	Cause error
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid rule definition")
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.RuleID != "" {
		fmt.Fprintf(&b, " (rule %s)", e.RuleID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// LoadError indicates a rule source could not be read at all (missing file,
// permission problem, unreadable directory).
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load rules from %q: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load rules from %q: %s", e.Path, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// UnknownFrameworkError indicates evaluation was requested against a
// framework that was never loaded. A loaded framework with zero rules is
// valid and does not produce this error.
type UnknownFrameworkError struct {
	Framework Framework
}

// Error returns the error message.
func (e *UnknownFrameworkError) Error() string {
	return fmt.Sprintf("framework not loaded: %q", e.Framework)
}

// ErrorList collects per-file errors from a directory load so that one bad
// framework file cannot take down all frameworks while still reporting every
// invalid rule.
type ErrorList struct {
	Errors []error
}

// Add appends an error to the list.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// HasErrors reports whether any errors were collected.
func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error returns all collected errors joined on newlines.
func (l *ErrorList) Error() string {
	if len(l.Errors) == 0 {
		return "no errors"
	}
	msgs := make([]string, len(l.Errors))
	for i, err := range l.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d rule source error(s):\n%s", len(l.Errors), strings.Join(msgs, "\n"))
}

// Unwrap returns the collected errors for errors.Is / errors.As traversal.
func (l *ErrorList) Unwrap() []error {
	return l.Errors
}
