// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini reads, edits and writes Windows-style INI configuration files.
See https://en.wikipedia.org/wiki/INI_file.

This package is designed for programs that keep their settings in a single
file: open it, read and change values and comments in memory, and save it
back. A saved file reads back to the same document.

Syntax

An INI file is Unicode text encoded in UTF-8. A file written by this package
looks like this:

	# Comment for the whole file
	# Last Update: 2020-06-01T12:00:00Z

	# Comment for the group
	[group]
	plain = value

	# Comment for the property
	quoted = "  surrounded by spaces  "
	empty = ""
	null =

A line that ends in an odd number of backslashes is continued on the next
line: the last backslash is removed and the following line is appended as is.
Lines, property values and comment lines longer than LineLength characters
are written this way.

A line starting with a hash ('#') is a comment. Comments before the first
blank line of the file belong to the file. Any other comment belongs to the
next group or property. The line "# Last Update: <RFC 3339 time>" records the
time of the last save and is rewritten by every save.

A group is started by writing its name in square brackets ('[' and ']') on
its own line. Group names must not be blank and must not contain ']', tabs or
line breaks. Properties must appear inside a group; a property before the
first group is a *StructureError.

A property is a key and a value separated by an equals sign ('='). Keys must
not be blank, must not contain '=', tabs or line breaks and must not start
with '#' or '['. Whitespace around keys and values is ignored. Values may
use escape sequences:

	\n    U+000A line feed or newline
	\r    U+000D carriage return
	\t    U+0009 horizontal tab
	\\    U+005C backslash
	\"    U+0022 double quote
	\xFF  hex escape, also used for bytes that are not valid UTF-8

Values that are empty or begin or end with whitespace are written in double
quotes. A property with nothing after the equals sign has no value (is null),
which is different from the empty string.

Order

Groups are written in the order they were created. Properties are written
sorted by key.
*/
package ini
