package request

import (
	"bytes"
	"encoding/json"
)

// Optional marks whether a patch field was present in the request body.
// A JSON null is treated the same as an omitted field.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}

	var value T

	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = value
	o.Set = true

	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}

	return json.Marshal(o.Value)
}

// Pointer returns nil when the field is absent and a pointer to a copy of the
// value otherwise.
func (o Optional[T]) Pointer() any {
	if !o.Set {
		return nil
	}

	value := o.Value
	return &value
}

// Present is satisfied by every Optional instantiation.
type Present interface {
	Pointer() any
}
