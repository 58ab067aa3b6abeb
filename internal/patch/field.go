// Package patch holds JSON field types for partial updates.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was present in the payload and whether
// it carried null. The zero value means the key was absent.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil when the field is absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Present || f.Null {
		return nil
	}
	v := f.Value
	return &v
}
