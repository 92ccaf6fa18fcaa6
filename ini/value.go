// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

// A Value is a single property of a group: a key, an optional value and an
// optional comment. A Value that has never been set, or was last set with
// SetNull, is null.
type Value struct {
	key     string
	value   string
	valid   bool
	comment comment
}

func newValue(key string) (*Value, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return &Value{key: key}, nil
}

// Key returns the property's key.
func (v *Value) Key() string {
	return v.key
}

// Get returns the property's value. ok is false if the value is null.
func (v *Value) Get() (_ string, ok bool) {
	return v.value, v.valid
}

// Set replaces the value.
func (v *Value) Set(s string) {
	v.value, v.valid = s, true
}

// SetNull clears the value. This is distinct from setting the empty string.
func (v *Value) SetNull() {
	v.value, v.valid = "", false
}

// Comment returns the comment attached to the property. Lines are separated
// by '\n'.
func (v *Value) Comment() string {
	return v.comment.String()
}

// AddComment appends the lines of c to the comment. Blank comments are
// ignored.
func (v *Value) AddComment(c string) {
	v.comment.add(c)
}

// SetComment replaces the comment with c.
func (v *Value) SetComment(c string) {
	v.comment.set(c)
}

// MarshalText renders the property as it appears in a file.
func (v *Value) MarshalText() ([]byte, error) {
	return v.appendText(nil), nil
}

func (v *Value) appendText(dst []byte) []byte {
	if len(v.comment) > 0 {
		dst = append(dst, '\n')
		dst = v.comment.appendText(dst)
	}
	l := v.key + " ="
	if v.valid {
		l += " " + formatValue(v.value)
	}
	return appendWrapped(dst, l, false)
}
