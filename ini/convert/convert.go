// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package convert provides ini.Converter implementations for common types.
package convert

import (
	"time"

	"github.com/spf13/cast"
	"github.com/yourbase/inifile/ini"
)

// Converters for basic types.
var (
	String  ini.Converter[string]  = castConverter[string]{cast.ToStringE}
	Bool    ini.Converter[bool]    = castConverter[bool]{cast.ToBoolE}
	Int     ini.Converter[int]     = castConverter[int]{cast.ToIntE}
	Int64   ini.Converter[int64]   = castConverter[int64]{cast.ToInt64E}
	Uint    ini.Converter[uint]    = castConverter[uint]{cast.ToUintE}
	Float64 ini.Converter[float64] = castConverter[float64]{cast.ToFloat64E}

	// Duration writes durations in time.Duration.String form.
	Duration ini.Converter[time.Duration] = durationConverter{}

	// Time writes times in RFC 3339 format with nanoseconds.
	Time ini.Converter[time.Time] = timeConverter{}
)

type castConverter[T any] struct {
	from func(interface{}) (T, error)
}

func (c castConverter[T]) ToString(v T) (string, error) {
	return cast.ToStringE(v)
}

func (c castConverter[T]) FromString(s string) (T, error) {
	return c.from(s)
}

type durationConverter struct{}

func (durationConverter) ToString(d time.Duration) (string, error) {
	return d.String(), nil
}

func (durationConverter) FromString(s string) (time.Duration, error) {
	return cast.ToDurationE(s)
}

type timeConverter struct{}

func (timeConverter) ToString(t time.Time) (string, error) {
	return t.Format(time.RFC3339Nano), nil
}

func (timeConverter) FromString(s string) (time.Time, error) {
	return cast.ToTimeE(s)
}

// Func returns a converter built from a pair of functions.
func Func[T any](toString func(T) (string, error), fromString func(string) (T, error)) ini.Converter[T] {
	return funcConverter[T]{toString, fromString}
}

type funcConverter[T any] struct {
	to   func(T) (string, error)
	from func(string) (T, error)
}

func (c funcConverter[T]) ToString(v T) (string, error) {
	return c.to(v)
}

func (c funcConverter[T]) FromString(s string) (T, error) {
	return c.from(s)
}
