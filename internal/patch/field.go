// Package patch holds the optional fields used by partial-update request
// bodies.
//
// A Field has three states:
//   - absent: the key was not in the body, the stored value is left alone;
//   - null: the key was present with JSON null (or "" for text), the stored
//     value is cleared where the column allows it;
//   - set: the key carried a value.
package patch

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

func Cleared[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	if s, ok := any(f.Value).(string); ok && strings.TrimSpace(s) == "" {
		f.Null = true
	}
	return nil
}

// IsSet reports whether the field carries a usable value.
func (f Field[T]) IsSet() bool {
	return f.Present && !f.Null
}

// IsCleared reports whether the caller asked to clear the stored value.
func (f Field[T]) IsCleared() bool {
	return f.Present && f.Null
}

// Apply writes the field into dst when it carries a value.
func (f Field[T]) Apply(dst *T) bool {
	if !f.IsSet() {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyNullable writes the field into a nullable column, clearing it on null.
func (f Field[T]) ApplyNullable(dst **T) bool {
	if !f.Present {
		return false
	}
	if f.Null {
		*dst = nil
		return true
	}
	v := f.Value
	*dst = &v
	return true
}
