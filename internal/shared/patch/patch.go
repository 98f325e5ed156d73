// Package patch models partial-update fields with three states: absent from
// the payload, explicit null, or a value. A logged zero (0 reps, 0 weight) is
// a value, never absence.
package patch

import "encoding/json"

type Field[T any] struct {
	Set   bool // key was present in the payload
	Null  bool // key was present and explicitly null
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply merges the field into the stored pointer value: unset keeps the
// current value, null clears it, a value overwrites it.
func (f Field[T]) Apply(current *T) *T {
	if !f.Set {
		return current
	}
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}
