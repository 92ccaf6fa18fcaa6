// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import "sort"

// A Group is a named section of a file. Its properties are kept sorted by
// key, independent of the order they were added in.
type Group struct {
	name    string
	comment comment
	keys    []string
	values  map[string]*Value
}

func newGroup(name string) (*Group, error) {
	if err := ValidateGroupName(name); err != nil {
		return nil, err
	}
	return &Group{name: name}, nil
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// Comment returns the comment attached to the group.
func (g *Group) Comment() string {
	return g.comment.String()
}

// AddComment appends the lines of c to the group's comment. Blank comments
// are ignored.
func (g *Group) AddComment(c string) {
	g.comment.add(c)
}

// SetComment replaces the group's comment with c.
func (g *Group) SetComment(c string) {
	g.comment.set(c)
}

// Keys returns the group's keys in ascending order.
func (g *Group) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Value returns the property with the given key or nil if there is none.
func (g *Group) Value(key string) *Value {
	return g.values[key]
}

// value returns the property with the given key, creating it if necessary.
func (g *Group) value(key string) (*Value, error) {
	if v := g.values[key]; v != nil {
		return v, nil
	}
	v, err := newValue(key)
	if err != nil {
		return nil, err
	}
	if g.values == nil {
		g.values = make(map[string]*Value)
	}
	g.values[key] = v
	i := sort.SearchStrings(g.keys, key)
	g.keys = append(g.keys, "")
	copy(g.keys[i+1:], g.keys[i:])
	g.keys[i] = key
	return v, nil
}

// Set sets the property to the given value, creating it if necessary.
func (g *Group) Set(key, value string) (*Value, error) {
	v, err := g.value(key)
	if err != nil {
		return nil, err
	}
	v.Set(value)
	return v, nil
}

// SetNull clears the property's value, creating the property if necessary.
func (g *Group) SetNull(key string) (*Value, error) {
	v, err := g.value(key)
	if err != nil {
		return nil, err
	}
	v.SetNull()
	return v, nil
}

// AddValueComment appends c to the comment of the property with the given
// key. The property is created if c is not blank.
func (g *Group) AddValueComment(key, c string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if isBlank(c) {
		return nil
	}
	v, err := g.value(key)
	if err != nil {
		return err
	}
	v.AddComment(c)
	return nil
}

// SetValueComment replaces the comment of the property with the given key,
// creating the property if necessary.
func (g *Group) SetValueComment(key, c string) error {
	v, err := g.value(key)
	if err != nil {
		return err
	}
	v.SetComment(c)
	return nil
}

// MarshalText renders the group with all of its properties.
func (g *Group) MarshalText() ([]byte, error) {
	return g.appendText(nil), nil
}

func (g *Group) appendText(dst []byte) []byte {
	dst = append(dst, '\n')
	dst = g.comment.appendText(dst)
	dst = appendWrapped(dst, "["+g.name+"]", false)
	for _, key := range g.keys {
		dst = g.values[key].appendText(dst)
	}
	return dst
}
