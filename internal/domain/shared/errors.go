package shared

import (
	"fmt"
)

// ValidationError indicates that an input field was malformed or out of range
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError when the target leaves Field empty
func (e ValidationError) Is(target error) bool {
	t, ok := target.(ValidationError)
	if !ok {
		return false
	}
	return t.Field == "" || t.Field == e.Field
}

// ReferenceError indicates that a referenced owner or inventory item does not exist
type ReferenceError struct {
	Field string
	ID    int64
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("%s references missing record: %d", e.Field, e.ID)
}

func (e ReferenceError) Is(target error) bool {
	t, ok := target.(ReferenceError)
	if !ok {
		return false
	}
	return (t.Field == "" || t.Field == e.Field) && (t.ID == 0 || t.ID == e.ID)
}

// StorageError wraps a failure of the backing store, including timeouts
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error {
	return e.Err
}

// NewValidationError is a shorthand used by the normalizers.
func NewValidationError(field, format string, args ...interface{}) ValidationError {
	return ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
