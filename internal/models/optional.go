package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Optional records whether a JSON key was present and whether it was null.
// A zero Optional means the key was absent.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional holding JSON null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called by encoding/json for keys present in the input
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil for absent or null values
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// UserRef is a user id in a request body.
// It accepts a number, a numeric string, null or "" (the last two meaning "no user").
type UserRef struct {
	Set bool
	ID  *int
}

// SomeUser returns a present reference to the given user id
func SomeUser(id int) UserRef {
	return UserRef{Set: true, ID: &id}
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	u.Set = true
	u.ID = nil

	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid user id %s", string(data))
	}
	u.ID = &id
	return nil
}
