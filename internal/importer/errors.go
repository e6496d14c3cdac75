package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument signals a source document that cannot be parsed at all.
	ErrMalformedDocument = errors.New("importer: malformed document")
	// ErrMissingValue signals a required value absent from a source node.
	ErrMissingValue = errors.New("importer: missing value")
	// ErrUnknownField signals a Set call for a field the shape does not declare.
	ErrUnknownField = errors.New("importer: unknown field")
)

// CoercionError reports a source value that cannot be converted to its declared type.
type CoercionError struct {
	Shape string
	Field string
	Raw   string
	Type  string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("importer: %s.%s: cannot coerce %q to %s: %v", e.Shape, e.Field, e.Raw, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// MissingIdentifierError reports a source node without a value for its identifier field.
// Position is the zero-based index of the node within its collection.
type MissingIdentifierError struct {
	Shape    string
	Field    string
	Position int
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("importer: %s node #%d has no identifier %q", e.Shape, e.Position, e.Field)
}

func (e *MissingIdentifierError) Unwrap() error { return ErrMissingValue }
