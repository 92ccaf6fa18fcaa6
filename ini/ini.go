// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/text/collate"
	"zombiezen.com/go/log"
)

// lastUpdatePrefix starts the comment line that records the time of the
// last save.
const lastUpdatePrefix = "# Last Update: "

// Options holds optional parameters for Create, Open and Parse.
type Options struct {
	// Fs is the file system the file is read from and written to.
	// If nil, the operating system's file system is used.
	Fs afero.Fs

	// Now returns the current time. It is consulted when a file is created
	// and on every save. If nil, time.Now is used.
	Now func() time.Time

	// Collator orders the result of Entries. If nil, group names and keys
	// are compared byte-wise.
	Collator *collate.Collator
}

// A File is an INI document bound to a path. The zero value is an empty
// document without a path.
//
// Mutations only affect memory until Save is called. A File must not be
// modified concurrently.
type File struct {
	path     string
	fs       afero.Fs
	now      func() time.Time
	collator *collate.Collator

	comment     comment
	lastUpdated time.Time
	groups      []*Group
	index       map[string]int
}

// Create returns an empty document bound to path. Nothing is written until
// Save is called. Nil options are treated identically as passing the zero
// value.
func Create(path string, opts *Options) *File {
	f := &File{path: path}
	if opts != nil {
		f.fs = opts.Fs
		f.now = opts.Now
		f.collator = opts.Collator
	}
	f.lastUpdated = f.clock()
	return f
}

// Open reads the document at path. If the file does not exist, Open returns
// an empty document that will be created by the first Save.
func Open(ctx context.Context, path string, opts *Options) (*File, error) {
	f := Create(path, opts)
	if err := f.load(ctx); err != nil {
		return nil, fmt.Errorf("open ini file: %w", err)
	}
	return f, nil
}

// Parse reads a document from r. The returned File is not bound to a path.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(r io.Reader, opts *Options) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse ini file: %w", err)
	}
	f := Create("", opts)
	if err := f.parseData(data); err != nil {
		return nil, fmt.Errorf("parse ini file: %w", err)
	}
	return f, nil
}

func (f *File) filesystem() afero.Fs {
	if f.fs == nil {
		return afero.NewOsFs()
	}
	return f.fs
}

func (f *File) clock() time.Time {
	if f.now == nil {
		return time.Now()
	}
	return f.now()
}

// Path returns the path the document is bound to.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// LastUpdated returns the time of the last save, as recorded in the file.
func (f *File) LastUpdated() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.lastUpdated
}

// Refresh discards the in-memory document and reads it again from its path.
// If the file no longer exists, the document becomes empty. On error, the
// in-memory document is left unchanged.
func (f *File) Refresh(ctx context.Context) error {
	if f.path == "" {
		return errors.New("refresh ini file: no path")
	}
	if err := f.load(ctx); err != nil {
		return fmt.Errorf("refresh ini file: %w", err)
	}
	return nil
}

func (f *File) load(ctx context.Context) error {
	data, err := afero.ReadFile(f.filesystem(), f.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf(ctx, "%s does not exist; starting empty", f.path)
		f.replace(f.empty())
		return nil
	}
	if err != nil {
		return err
	}
	if err := f.parseData(data); err != nil {
		return err
	}
	log.Debugf(ctx, "Read %s (%d groups)", f.path, len(f.groups))
	return nil
}

// Save writes the document to its path, creating missing parent directories.
// The last update time is set to the current time once the file is written.
// The previous content of the file is replaced atomically.
func (f *File) Save(ctx context.Context) error {
	if f.path == "" {
		return errors.New("save ini file: no path")
	}
	fsys := f.filesystem()
	dir := filepath.Dir(f.path)
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return fmt.Errorf("save ini file %s: %w", f.path, err)
	}
	if !exists {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save ini file %s: %w", f.path, err)
		}
		log.Infof(ctx, "Created directory %s", dir)
	}
	now := f.clock()
	if err := writeFile(ctx, fsys, f.path, f.appendText(nil, now)); err != nil {
		return fmt.Errorf("save ini file %s: %w", f.path, err)
	}
	f.lastUpdated = now
	log.Debugf(ctx, "Wrote %s", f.path)
	return nil
}

// writeFile writes data to a temporary file next to path and renames it over
// path. An existing file's permissions are kept.
func writeFile(ctx context.Context, fsys afero.Fs, path string, data []byte) (err error) {
	perm := os.FileMode(0o644)
	if info, err := fsys.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err == nil {
			return
		}
		if rmErr := fsys.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			log.Warnf(ctx, "Removing temporary file %s: %v", tmpName, rmErr)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Chmod(tmpName, perm); err != nil {
		return err
	}
	return fsys.Rename(tmpName, path)
}

// empty returns a document with the same binding and options as f but no
// content.
func (f *File) empty() *File {
	return &File{
		path:        f.path,
		fs:          f.fs,
		now:         f.now,
		collator:    f.collator,
		lastUpdated: f.clock(),
	}
}

func (f *File) replace(next *File) {
	f.comment = next.comment
	f.lastUpdated = next.lastUpdated
	f.groups = next.groups
	f.index = next.index
}

func (f *File) parseData(data []byte) error {
	physical, err := splitLines(data)
	if err != nil {
		return err
	}
	return f.parse(joinLines(physical))
}

// parse replaces the content of f with the given logical lines. f is only
// modified if the whole input is valid.
func (f *File) parse(lines []line) error {
	next := f.empty()
	var (
		current  *Group
		buffered comment
		toBuffer bool
	)
	for _, l := range lines {
		text := strings.TrimSpace(l.text)
		if t, ok := parseLastUpdate(text); ok {
			next.lastUpdated = t
			continue
		}
		switch {
		case strings.HasPrefix(text, "#"):
			c := unescape(strings.TrimSpace(text[1:]))
			if toBuffer {
				buffered = append(buffered, c)
			} else {
				next.comment = append(next.comment, c)
			}
		case len(text) >= 2 && text[0] == '[' && text[len(text)-1] == ']':
			g, err := newGroup(text[1 : len(text)-1])
			if err != nil {
				return f.structureError(l, err)
			}
			g.comment = buffered
			buffered = nil
			next.putGroup(g)
			current = g
		case text == "":
			toBuffer = true
		default:
			if current == nil {
				return f.structureError(l, errNoGroup)
			}
			pos := strings.IndexByte(text, '=')
			if pos < 1 {
				return f.structureError(l, errNoSeparator)
			}
			v, err := current.value(strings.TrimSpace(text[:pos]))
			if err != nil {
				return f.structureError(l, err)
			}
			if data, ok := parseValue(text[pos+1:]); ok {
				v.Set(data)
			} else {
				v.SetNull()
			}
			v.comment = append(v.comment, buffered...)
			buffered = nil
		}
	}
	f.replace(next)
	return nil
}

func (f *File) structureError(l line, reason error) error {
	return &StructureError{Path: f.path, Line: l.lineno, Reason: reason}
}

// parseLastUpdate reports whether text is a last update marker with a valid
// timestamp.
func parseLastUpdate(text string) (time.Time, bool) {
	if !strings.HasPrefix(text, lastUpdatePrefix) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(text[len(lastUpdatePrefix):]))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// putGroup adds g to the document. A group with the same name is replaced
// in place.
func (f *File) putGroup(g *Group) {
	if i, ok := f.index[g.name]; ok {
		f.groups[i] = g
		return
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	f.index[g.name] = len(f.groups)
	f.groups = append(f.groups, g)
}

// group returns the named group, creating it at the end of the document if
// necessary.
func (f *File) group(name string) (*Group, error) {
	if g := f.Group(name); g != nil {
		return g, nil
	}
	g, err := newGroup(name)
	if err != nil {
		return nil, err
	}
	f.putGroup(g)
	return g, nil
}

// Group returns the named group or nil if there is none.
func (f *File) Group(name string) *Group {
	if f == nil {
		return nil
	}
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.groups[i]
}

// Groups returns the document's groups in the order they were created.
func (f *File) Groups() []*Group {
	if f == nil {
		return nil
	}
	return append([]*Group(nil), f.groups...)
}

// Get returns the value of the given property. ok is false if the group or
// the property does not exist or if the value is null. Get never fails, even
// for names that could not be stored.
func (f *File) Get(group, key string) (_ string, ok bool) {
	g := f.Group(group)
	if g == nil {
		return "", false
	}
	v := g.Value(key)
	if v == nil {
		return "", false
	}
	return v.Get()
}

// GetDefault returns the value of the given property or def if Get would
// report that there is none.
func (f *File) GetDefault(group, key, def string) string {
	if v, ok := f.Get(group, key); ok {
		return v
	}
	return def
}

// Set sets the property to the given value, creating the group and the
// property if necessary. Set returns an *ArgumentError if the group name or
// the key is invalid.
func (f *File) Set(group, key, value string) error {
	v, err := f.value(group, key)
	if err != nil {
		return err
	}
	v.Set(value)
	return nil
}

// SetNull sets the property to the null value, creating the group and the
// property if necessary.
func (f *File) SetNull(group, key string) error {
	v, err := f.value(group, key)
	if err != nil {
		return err
	}
	v.SetNull()
	return nil
}

// value returns the given property, creating it if necessary. Nothing is
// created unless both names are valid.
func (f *File) value(group, key string) (*Value, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	g, err := f.group(group)
	if err != nil {
		return nil, err
	}
	return g.value(key)
}

// HasGroup reports whether the document has a group with the given name.
func (f *File) HasGroup(group string) bool {
	return f.Group(group) != nil
}

// HasValue reports whether the given property exists and is not null.
func (f *File) HasValue(group, key string) bool {
	_, ok := f.Get(group, key)
	return ok
}

// Comment returns the document's leading comment.
func (f *File) Comment() string {
	if f == nil {
		return ""
	}
	return f.comment.String()
}

// AddComment appends the lines of c to the document's leading comment.
// Blank comments are ignored.
func (f *File) AddComment(c string) {
	f.comment.add(c)
}

// SetComment replaces the document's leading comment with c.
func (f *File) SetComment(c string) {
	f.comment.set(c)
}

// AddGroupComment appends c to the comment of the named group. The group is
// created if c is not blank.
func (f *File) AddGroupComment(group, c string) error {
	if err := ValidateGroupName(group); err != nil {
		return err
	}
	if isBlank(c) {
		return nil
	}
	g, err := f.group(group)
	if err != nil {
		return err
	}
	g.AddComment(c)
	return nil
}

// SetGroupComment replaces the comment of the named group, creating the group
// if necessary.
func (f *File) SetGroupComment(group, c string) error {
	g, err := f.group(group)
	if err != nil {
		return err
	}
	g.SetComment(c)
	return nil
}

// AddValueComment appends c to the comment of the given property. The group
// and the property are created if c is not blank.
func (f *File) AddValueComment(group, key, c string) error {
	if err := ValidateGroupName(group); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if isBlank(c) {
		return nil
	}
	v, err := f.value(group, key)
	if err != nil {
		return err
	}
	v.AddComment(c)
	return nil
}

// SetValueComment replaces the comment of the given property, creating the
// group and the property if necessary.
func (f *File) SetValueComment(group, key, c string) error {
	v, err := f.value(group, key)
	if err != nil {
		return err
	}
	v.SetComment(c)
	return nil
}

// Entries returns every property in the document, sorted by group name and
// then by key.
func (f *File) Entries() []Entry {
	if f == nil {
		return nil
	}
	var entries []Entry
	for _, g := range f.groups {
		for _, key := range g.keys {
			value, valid := g.values[key].Get()
			entries = append(entries, Entry{
				Group: g.name,
				Key:   key,
				Value: value,
				Valid: valid,
			})
		}
	}
	compare := strings.Compare
	if f.collator != nil {
		compare = f.collator.CompareString
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if c := compare(entries[i].Group, entries[j].Group); c != 0 {
			return c < 0
		}
		return compare(entries[i].Key, entries[j].Key) < 0
	})
	return entries
}

// LoadEntries sets the properties described by entries. Entries that are not
// valid set null values. LoadEntries stops at the first invalid name.
func (f *File) LoadEntries(entries ...Entry) error {
	for _, e := range entries {
		var err error
		if e.Valid {
			err = f.Set(e.Group, e.Key, e.Value)
		} else {
			err = f.SetNull(e.Group, e.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MarshalText serializes the document: the leading comment, the last update
// marker and then every group in creation order. The output does not depend
// on anything but the document's content.
func (f *File) MarshalText() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	return f.appendText(nil, f.lastUpdated), nil
}

// appendText serializes the document with the given last update time.
func (f *File) appendText(dst []byte, updated time.Time) []byte {
	dst = f.comment.appendText(dst)
	dst = append(dst, lastUpdatePrefix...)
	dst = append(dst, updated.UTC().Format(time.RFC3339Nano)...)
	dst = append(dst, '\n')
	for _, g := range f.groups {
		dst = g.appendText(dst)
	}
	return dst
}

// UnmarshalText parses data, replacing the content of f. The path and
// options of f are kept.
func (f *File) UnmarshalText(data []byte) error {
	if err := f.parseData(data); err != nil {
		return fmt.Errorf("parse ini file: %w", err)
	}
	return nil
}

// String returns the serialized document.
func (f *File) String() string {
	data, _ := f.MarshalText()
	return string(data)
}
