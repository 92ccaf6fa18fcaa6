// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation failures. An *ArgumentError wraps exactly one of these, so
// callers can use errors.Is to tell a missing name from a malformed one.
var (
	ErrEmpty     = errors.New("empty")
	ErrBlank     = errors.New("blank")
	ErrMalformed = errors.New("malformed")
)

// An ArgumentError reports a group name or key that cannot be used.
type ArgumentError struct {
	Arg   string // "group" or "key"
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("ini: %s %q is %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// A StructureError reports content that does not follow the group and
// property grammar.
type StructureError struct {
	Path   string // empty when parsing from a reader
	Line   int
	Reason error
}

func (e *StructureError) Error() string {
	name := e.Path
	if name == "" {
		name = "ini data"
	}
	return fmt.Sprintf("%s has invalid structure: line %d: %v", name, e.Line, e.Reason)
}

func (e *StructureError) Unwrap() error {
	return e.Reason
}

var (
	errNoGroup     = errors.New("property outside of any group")
	errNoSeparator = errors.New("missing '=' after key")
)

// ValidateGroupName returns an *ArgumentError if name cannot be used as a
// group name. Group names must not be blank and must not contain ']', tabs
// or line breaks.
func ValidateGroupName(name string) error {
	if err := checkName(name, "]\t\n"); err != nil {
		return &ArgumentError{Arg: "group", Value: name, Err: err}
	}
	return nil
}

// ValidateKey returns an *ArgumentError if key cannot be used as a property
// key. Keys must not be blank, must not contain '=', tabs or line breaks,
// must not start with '#' or '[' and must not have surrounding whitespace.
func ValidateKey(key string) error {
	err := checkName(key, "=\t\n")
	if err == nil {
		first, _ := utf8.DecodeRuneInString(key)
		if first == '#' || first == '[' || strings.TrimSpace(key) != key {
			err = ErrMalformed
		}
	}
	if err != nil {
		return &ArgumentError{Arg: "key", Value: key, Err: err}
	}
	return nil
}

func checkName(s string, forbidden string) error {
	switch {
	case s == "":
		return ErrEmpty
	case strings.TrimSpace(s) == "":
		return ErrBlank
	case strings.ContainsAny(s, forbidden):
		return ErrMalformed
	default:
		return nil
	}
}

// IsValidGroupName reports whether a string can be used as a group name.
func IsValidGroupName(name string) bool {
	return ValidateGroupName(name) == nil
}

// IsValidKey reports whether a string can be used as a property key.
func IsValidKey(key string) bool {
	return ValidateKey(key) == nil
}
