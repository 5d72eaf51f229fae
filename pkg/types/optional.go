// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
)

// Optional holds a value that may be missing. The zero value is missing.
// Extractors return Optional rather than zero values so that an empty
// measurement is never confused with a measured zero.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns a missing Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether a value is held.
func (o Optional[T]) Present() bool {
	return o.ok
}

// OrElse returns the held value, or fallback when missing.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// String renders the value with %v; a missing value renders as "".
func (o Optional[T]) String() string {
	if !o.ok {
		return ""
	}
	return fmt.Sprintf("%v", o.value)
}

// MarshalJSON encodes a missing value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// MarshalYAML encodes a missing value as null.
func (o Optional[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.value, nil
}

// Text returns a present Optional for non-empty s. Empty text and absent
// text are the same outcome.
func Text(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
