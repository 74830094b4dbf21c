// Package patch provides a tri-state JSON field for partial updates,
// distinguishing a key that was absent from one explicitly set to null.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field holds one value of a PATCH payload. Set reports whether the key
// appeared in the payload at all; Valid reports whether it carried a
// non-null value. The zero Field means "absent, leave untouched".
type Field[T any] struct {
	Value T
	Set   bool
	Valid bool
}

// Of wraps a concrete value.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true, Valid: true}
}

// Null is an explicit null: present in the payload, clearing the field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// Ptr renders the field as a nullable pointer: nil for an explicit
// null, the value otherwise. Only meaningful when Set.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked by encoding/json when the key is
// present, so Set is always true here; absent keys keep the zero Field.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(data, []byte("null")) {
		var zero T
		f.Value = zero
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
