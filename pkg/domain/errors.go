package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service. Handlers map these onto HTTP
// status codes with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidState covers acting on a submission, group, or layer in the
	// wrong state or by the wrong actor (e.g. approving a non-pending
	// submission, deleting a category still referenced by ebooks).
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError reports rejected input: missing required fields, wrong file
// type, or duplicate unique keys.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Invalid builds a ValidationError for a named field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// StorageError wraps a failed blob store operation. Callers must not assume
// partial effects: a failed copy leaves the source untouched.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
