// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"fmt"
)

// Document is the set of operations a *File provides. It exists so that code
// working with configuration can be tested against a fake.
type Document interface {
	Refresh(ctx context.Context) error
	Save(ctx context.Context) error

	Get(group, key string) (_ string, ok bool)
	Set(group, key, value string) error
	SetNull(group, key string) error
	HasGroup(group string) bool
	HasValue(group, key string) bool
	Entries() []Entry

	AddComment(c string)
	SetComment(c string)
	AddGroupComment(group, c string) error
	SetGroupComment(group, c string) error
	AddValueComment(group, key, c string) error
	SetValueComment(group, key, c string) error
}

var _ Document = (*File)(nil)

// An Entry is a single property, as listed by Entries.
type Entry struct {
	Group string
	Key   string
	Value string
	// Valid is false if the value is null.
	Valid bool
}

// String formats the entry as "group/key = value".
func (e Entry) String() string {
	if !e.Valid {
		return e.Group + "/" + e.Key + " ="
	}
	return e.Group + "/" + e.Key + " = " + e.Value
}

// A Converter translates between strings and values of type T.
// Package convert provides converters for common types.
type Converter[T any] interface {
	ToString(v T) (string, error)
	FromString(s string) (T, error)
}

// GetAs returns the value of the given property converted with c. ok is false
// if Get reports no value, in which case c is not called.
func GetAs[T any](d Document, group, key string, c Converter[T]) (_ T, ok bool, err error) {
	s, ok := d.Get(group, key)
	if !ok {
		var zero T
		return zero, false, nil
	}
	v, err := c.FromString(s)
	if err != nil {
		var zero T
		return zero, true, fmt.Errorf("ini: get %s/%s: %w", group, key, err)
	}
	return v, true, nil
}

// GetAsDefault is like GetAs, but returns def if there is no value.
func GetAsDefault[T any](d Document, group, key string, c Converter[T], def T) (T, error) {
	v, ok, err := GetAs(d, group, key, c)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// EntryAs returns the value of e converted with c. ok is false if the value
// is null, in which case c is not called.
func EntryAs[T any](e Entry, c Converter[T]) (_ T, ok bool, err error) {
	if !e.Valid {
		var zero T
		return zero, false, nil
	}
	v, err := c.FromString(e.Value)
	if err != nil {
		var zero T
		return zero, true, fmt.Errorf("ini: convert %s/%s: %w", e.Group, e.Key, err)
	}
	return v, true, nil
}

// SetAs converts v with c and sets the property to the result.
func SetAs[T any](d Document, group, key string, v T, c Converter[T]) error {
	s, err := c.ToString(v)
	if err != nil {
		return fmt.Errorf("ini: set %s/%s: %w", group, key, err)
	}
	return d.Set(group, key, s)
}
