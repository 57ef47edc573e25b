// Package patch models partial-update input where a JSON field may be
// absent, explicitly null, or carry a value.
package patch

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

// Field is a tri-state optional value. The zero Field is absent, which is
// what encoding/json leaves behind when the key is missing from the payload.
type Field[T any] struct {
	state state
	value T
}

func Value[T any](v T) Field[T] {
	return Field[T]{state: set, value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// Present reports whether the field appeared in the input, as null or as a value.
func (f Field[T]) Present() bool { return f.state != absent }

func (f Field[T]) IsNull() bool { return f.state == null }

func (f Field[T]) IsSet() bool { return f.state == set }

// Get returns the value and true only when the field carries a value.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == set
}

// Ptr returns nil for null or absent, else a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	if f.state != set {
		return nil
	}
	v := f.value
	return &v
}

// Apply merges the field over current: absent keeps current, null clears it.
func (f Field[T]) Apply(current *T) *T {
	switch f.state {
	case null:
		return nil
	case set:
		return f.Ptr()
	default:
		return current
	}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = null, zero
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.state = set
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
