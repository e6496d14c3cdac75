package importer

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// FieldType is the declared type of a shape field.
type FieldType int

const (
	// TypeInt is a 64-bit signed integer.
	TypeInt FieldType = iota + 1
	// TypeFloat is a 64-bit float.
	TypeFloat
	// TypeString is free text.
	TypeString
	// TypeTime is a timestamp.
	TypeTime
)

func (t FieldType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	default:
		return "FieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// timeLayouts are tried in order when coercing to TypeTime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Value is a source value already coerced to a FieldType.
type Value struct {
	typ FieldType
	raw string
	i   int64
	f   float64
	t   time.Time
}

// Type returns the declared type the value was coerced to.
func (v Value) Type() FieldType { return v.typ }

// Raw returns the source text.
func (v Value) Raw() string { return v.raw }

// Int returns the integer value.
func (v Value) Int() int64 { return v.i }

// Float returns the floating point value.
func (v Value) Float() float64 { return v.f }

// String returns the source text; for TypeString it is the value itself.
func (v Value) String() string { return v.raw }

// Time returns the timestamp value.
func (v Value) Time() time.Time { return v.t }

// Coerce converts raw source text to typ.
func Coerce(raw string, typ FieldType) (Value, error) {
	v := Value{typ: typ, raw: raw}
	switch typ {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, err
		}
		v.i = n
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, err
		}
		v.f = f
	case TypeString:
	case TypeTime:
		t, err := parseTime(raw)
		if err != nil {
			return Value{}, err
		}
		v.t = t
	default:
		return Value{}, fmt.Errorf("unsupported field type %s", typ)
	}
	return v, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}

// KeyType is the declared type of an identifier. The zero value is KeyInt.
type KeyType int

const (
	// KeyInt identifiers are decimal integers.
	KeyInt KeyType = iota
	// KeyString identifiers are opaque strings.
	KeyString
)

func (k KeyType) String() string {
	if k == KeyString {
		return "string"
	}
	return "int"
}

// Key is an identifier value of a declared KeyType.
type Key struct {
	typ KeyType
	i   int64
	s   string
}

// IntKey creates an integer key.
func IntKey(n int64) Key { return Key{typ: KeyInt, i: n, s: strconv.FormatInt(n, 10)} }

// StringKey creates a string key.
func StringKey(s string) Key { return Key{typ: KeyString, s: s} }

// ParseKey parses raw as an identifier of type typ.
func ParseKey(raw string, typ KeyType) (Key, error) {
	if raw == "" {
		return Key{}, ErrMissingValue
	}
	if typ == KeyString {
		return StringKey(raw), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Key{}, err
	}
	return IntKey(n), nil
}

// Type returns the key type.
func (k Key) Type() KeyType { return k.typ }

// Int returns the integer form; zero for string keys.
func (k Key) Int() int64 { return k.i }

// String returns the canonical text form.
func (k Key) String() string { return k.s }

// IsZero reports whether k was never set.
func (k Key) IsZero() bool { return k.s == "" }
