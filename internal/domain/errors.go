package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed query parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotImported signals that no dataset import has completed yet.
	ErrNotImported = errors.New("dataset not imported")
)

// RecordNotFoundError wraps ErrNotFound with the index and identifier that were looked up.
type RecordNotFoundError struct {
	Index string
	ID    string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Index, e.ID, ErrNotFound.Error())
}

func (e *RecordNotFoundError) Unwrap() error { return ErrNotFound }

// NewRecordNotFound creates a not-found error for a record.
func NewRecordNotFound(index, id string) error {
	return &RecordNotFoundError{Index: index, ID: id}
}
