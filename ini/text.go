// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"
)

// LineLength is the maximum number of characters in a line written by
// MarshalText, including any trailing continuation backslash.
const LineLength = 75

// maxLineSize bounds a single physical line when reading a file.
const maxLineSize = 16 << 20

// A line is a logical line: one or more physical lines joined at their
// continuation backslashes.
type line struct {
	text   string
	lineno int // physical line the logical line starts on
}

// splitLines splits data into physical lines, dropping line terminators.
func splitLines(data []byte) ([]string, error) {
	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(nil, maxLineSize)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// joinLines merges continued physical lines. A physical line that ends in an
// odd number of backslashes is continued: the last backslash is dropped and
// the next line is appended verbatim.
func joinLines(physical []string) []line {
	var (
		joined  []line
		buf     strings.Builder
		pending bool
		start   int
	)
	for i, text := range physical {
		if trailingBackslashes(text)%2 == 1 {
			if !pending {
				start = i + 1
				pending = true
			}
			buf.WriteString(text[:len(text)-1])
			continue
		}
		if !pending {
			joined = append(joined, line{text: text, lineno: i + 1})
			continue
		}
		buf.WriteString(text)
		joined = append(joined, line{text: buf.String(), lineno: start})
		buf.Reset()
		pending = false
	}
	if pending {
		// Continuation at end of file.
		joined = append(joined, line{text: buf.String(), lineno: start})
	}
	return joined
}

// wrapLine splits s into physical lines of at most width characters. All
// lines but the last end in a continuation backslash. If words is true, a
// break just before a space in the second half of the line is preferred over
// a hard break. width must be at least 3.
//
// Lines are split at byte offsets, so bytes that are not valid UTF-8 are kept
// as they are. Each such byte counts as one character.
func wrapLine(s string, width int, words bool) []string {
	var lines []string
	for {
		starts := charStarts(s, width+1)
		if len(starts) <= width {
			return append(lines, s)
		}
		n := starts[breakPoint(s, starts, width-1, words)]
		lines = append(lines, s[:n]+`\`)
		s = s[n:]
	}
}

// charStarts returns the byte offsets of the first limit characters of s.
func charStarts(s string, limit int) []int {
	starts := make([]int, 0, limit)
	for i := 0; i < len(s) && len(starts) < limit; {
		starts = append(starts, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return starts
}

// breakPoint returns how many characters of s go on a continued line, given
// the offsets of its characters. The result is at most max and never leaves
// an odd run of backslashes at the end of the chunk, so the continuation
// backslash stays recognizable.
func breakPoint(s string, starts []int, max int, words bool) int {
	n := max
	if words {
		for i := max; i > max/2; i-- {
			if s[starts[i]] == ' ' {
				n = i
				break
			}
		}
	}
	if trailingBackslashes(s[:starts[n]])%2 == 1 {
		n--
	}
	return n
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

// appendEscaped appends v to dst with line breaks, tabs, backslashes, other
// control characters and bytes that are not valid UTF-8 replaced by escape
// sequences. If quote is true, double quotes are escaped too.
func appendEscaped(dst []byte, v string, quote bool) []byte {
	const hexDigits = "0123456789abcdef"
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '"' && quote:
			dst = append(dst, '\\', '"')
		case c < ' ' || c == del:
			dst = append(dst, '\\', 'x', hexDigits[c>>4], hexDigits[c&0xf])
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(v[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, '\\', 'x', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			dst = append(dst, v[i:i+size]...)
			i += size - 1
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

const del = '\x7f'

func escape(v string) string {
	return string(appendEscaped(make([]byte, 0, len(v)), v, false))
}

// unescape reverses appendEscaped. Unknown or truncated escape sequences are
// kept as written.
func unescape(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	sb := new(strings.Builder)
	sb.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] != '\\' || i+1 == len(v) {
			sb.WriteByte(v[i])
			continue
		}
		switch c := v[i+1]; c {
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case '"', '\\':
			sb.WriteByte(c)
			i++
		case 'x':
			if i+3 < len(v) && isHexDigit(v[i+2]) && isHexDigit(v[i+3]) {
				sb.WriteByte(fromHex(v[i+2])<<4 | fromHex(v[i+3]))
				i += 3
			} else {
				sb.WriteByte('\\')
			}
		default:
			sb.WriteByte('\\')
		}
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' ||
		'a' <= c && c <= 'f' ||
		'A' <= c && c <= 'F'
}

func fromHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa
	case 'A' <= c && c <= 'F':
		return c - 'A' + 0xa
	default:
		panic("invalid hex digit")
	}
}

// formatValue returns the text written after the separator for v. Values
// that the parser could not tell apart from a null value or that would lose
// surrounding whitespace are quoted.
func formatValue(v string) string {
	escaped := escape(v)
	if escaped != "" && escaped[0] != '"' && strings.TrimSpace(escaped) == escaped {
		return escaped
	}
	buf := make([]byte, 0, len(v)+2)
	buf = append(buf, '"')
	buf = appendEscaped(buf, v, true)
	buf = append(buf, '"')
	return string(buf)
}

// parseValue interprets the text after the separator. An empty value portion
// is a null value.
func parseValue(data string) (_ string, ok bool) {
	data = strings.TrimSpace(data)
	if data == "" {
		return "", false
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return unescape(data[1 : len(data)-1]), true
	}
	return unescape(data), true
}

// A comment is a list of comment lines.
type comment []string

// add appends the lines of s unless s is blank.
func (c *comment) add(s string) {
	if isBlank(s) {
		return
	}
	for _, text := range strings.Split(s, "\n") {
		*c = append(*c, strings.TrimSpace(text))
	}
}

func (c *comment) set(s string) {
	*c = nil
	c.add(s)
}

func (c comment) String() string {
	return strings.Join(c, "\n")
}

// appendText appends the comment as '#' lines.
func (c comment) appendText(dst []byte) []byte {
	for _, text := range c {
		l := "#"
		if text != "" {
			l = "# " + escape(text)
		}
		if _, ok := parseLastUpdate(l); ok {
			// Escape the first letter so the line is not read as the marker.
			l = `# \x4c` + l[len("# L"):]
		}
		dst = appendWrapped(dst, l, true)
	}
	return dst
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func appendWrapped(dst []byte, s string, words bool) []byte {
	for _, l := range wrapLine(s, LineLength, words) {
		dst = append(dst, l...)
		dst = append(dst, '\n')
	}
	return dst
}
