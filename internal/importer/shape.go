package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldSpec describes one field of a record shape.
type FieldSpec struct {
	Name string
	Type FieldType
}

// Shape describes a record type the importer can construct without reflection.
type Shape interface {
	Name() string
	IDField() string
	Fields() []FieldSpec
	NewRecord() Record
}

// Record is a single instance under construction.
type Record interface {
	Set(field string, v Value) error
	// Value returns the constructed instance (a pointer to the record type).
	Value() any
}

// Schema is a Shape over record type T driven by a static setter table.
type Schema[T any] struct {
	name    string
	idField string
	fields  []FieldSpec
	setters map[string]func(*T, Value)
}

// NewSchema starts building a shape named name for records of type T.
func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{name: name, setters: make(map[string]func(*T, Value))}
}

// ID marks an already declared field as the identifier.
func (s *Schema[T]) ID(field string) *Schema[T] {
	s.idField = field
	return s
}

// Int declares an integer field.
func (s *Schema[T]) Int(name string, set func(*T, int64)) *Schema[T] {
	return s.add(name, TypeInt, func(r *T, v Value) { set(r, v.Int()) })
}

// Float declares a floating point field.
func (s *Schema[T]) Float(name string, set func(*T, float64)) *Schema[T] {
	return s.add(name, TypeFloat, func(r *T, v Value) { set(r, v.Float()) })
}

// Text declares a string field.
func (s *Schema[T]) Text(name string, set func(*T, string)) *Schema[T] {
	return s.add(name, TypeString, func(r *T, v Value) { set(r, v.String()) })
}

// Time declares a timestamp field.
func (s *Schema[T]) Time(name string, set func(*T, time.Time)) *Schema[T] {
	return s.add(name, TypeTime, func(r *T, v Value) { set(r, v.Time()) })
}

func (s *Schema[T]) add(name string, typ FieldType, set func(*T, Value)) *Schema[T] {
	s.fields = append(s.fields, FieldSpec{Name: name, Type: typ})
	s.setters[strings.ToLower(name)] = set
	return s
}

// Build validates the schema.
func (s *Schema[T]) Build() (*Schema[T], error) {
	if s.name == "" {
		return nil, errors.New("shape name is required")
	}
	if len(s.fields) == 0 {
		return nil, fmt.Errorf("shape %s: at least one field is required", s.name)
	}
	if len(s.setters) != len(s.fields) {
		return nil, fmt.Errorf("shape %s: duplicate field name", s.name)
	}
	if s.idField == "" {
		return nil, fmt.Errorf("shape %s: identifier field is required", s.name)
	}
	spec, ok := s.field(s.idField)
	if !ok {
		return nil, fmt.Errorf("shape %s: identifier %q is not a declared field", s.name, s.idField)
	}
	if spec.Type != TypeInt && spec.Type != TypeString {
		return nil, fmt.Errorf("shape %s: identifier %q must be int or string, got %s", s.name, s.idField, spec.Type)
	}
	return s, nil
}

// MustBuild calls Build and panics on error.
func (s *Schema[T]) MustBuild() *Schema[T] {
	b, err := s.Build()
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns the shape name.
func (s *Schema[T]) Name() string { return s.name }

// IDField returns the identifier field name.
func (s *Schema[T]) IDField() string { return s.idField }

// Fields returns the declared fields in declaration order.
func (s *Schema[T]) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// IDKeyType returns the key type of the identifier field.
func (s *Schema[T]) IDKeyType() KeyType {
	if spec, ok := s.field(s.idField); ok && spec.Type == TypeString {
		return KeyString
	}
	return KeyInt
}

// NewRecord returns an empty record of type T.
func (s *Schema[T]) NewRecord() Record {
	return &record[T]{schema: s, v: new(T)}
}

func (s *Schema[T]) field(name string) (FieldSpec, bool) {
	for _, f := range s.fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FieldSpec{}, false
}

type record[T any] struct {
	schema *Schema[T]
	v      *T
}

func (r *record[T]) Set(field string, v Value) error {
	set, ok := r.schema.setters[strings.ToLower(field)]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.schema.name, field)
	}
	set(r.v, v)
	return nil
}

func (r *record[T]) Value() any { return r.v }

// As returns the entity's record as *T.
func As[T any](e Entity) (*T, bool) {
	v, ok := e.Record.(*T)
	return v, ok
}
