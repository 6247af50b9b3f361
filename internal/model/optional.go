package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a partial update.  Set is true when the field
// was present in the request body, even if its value was null; Null is
// true only for an explicit null.  A zero Optional means "leave as is".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

// Null returns an Optional that explicitly clears the field.
func Null[T any]() Optional[T] { return Optional[T]{Set: true, Null: true} }

// Present reports whether the field was supplied with a non-null value.
func (o Optional[T]) Present() bool { return o.Set && !o.Null }

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
// It must only be called when Set is true.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is invoked by encoding/json only when the key exists in
// the object, which is what lets absent and null be told apart.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON writes null for unset or null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
