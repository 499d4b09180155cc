// Package optional provides a three-state field value used by partial
// updates: a field can be absent from the payload, explicitly null, or set.
//
// Only the Absent state is skipped by patch application. When embedded in a
// struct with the `omitzero` JSON option an Absent value is omitted from the
// encoded output, a Null value encodes as null.
package optional

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	absent state = iota
	null
	set
)

// Value is an optional field of type T.
type Value[T any] struct {
	state state
	value T
}

// Absent returns a Value that was not supplied.
func Absent[T any]() Value[T] {
	return Value[T]{}
}

// Null returns a Value that was supplied as an explicit null.
func Null[T any]() Value[T] {
	return Value[T]{state: null}
}

// Of returns a Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{state: set, value: v}
}

// IsPresent reports whether the field was supplied, null included.
func (v Value[T]) IsPresent() bool {
	return v.state != absent
}

// IsNull reports whether the field was supplied as null.
func (v Value[T]) IsNull() bool {
	return v.state == null
}

// IsZero reports whether the field is absent. Used by encoding/json omitzero.
func (v Value[T]) IsZero() bool {
	return v.state == absent
}

// Get returns the held value and whether one is held. A null or absent field
// yields the zero value of T and false.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.state == set
}

// OrElse returns the held value, or def when none is held.
func (v Value[T]) OrElse(def T) T {
	if v.state == set {
		return v.value
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json only calls it for
// keys present in the payload, so a decoded Value is never Absent.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		v.state, v.value = null, zero
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	v.state, v.value = set, val
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}
