package models

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state optional value: absent, explicitly cleared, or set.
//
// Absent fields are dropped from JSON when tagged `omitzero`, cleared fields
// encode as null and set fields encode as their value.
type Field[T any] struct {
	value   T
	set     bool
	cleared bool
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Clear returns a Field that is explicitly cleared.
func Clear[T any]() Field[T] {
	return Field[T]{cleared: true}
}

// Get returns the value and whether it is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether f holds a value.
func (f Field[T]) IsSet() bool { return f.set }

// IsCleared reports whether f was explicitly cleared.
func (f Field[T]) IsCleared() bool { return f.cleared }

// IsZero reports whether f is absent. Used by encoding/json `omitzero`.
func (f Field[T]) IsZero() bool { return !f.set && !f.cleared }

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = Clear[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}
