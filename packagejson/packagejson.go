/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
// Package packagejson provides parsing and targeted rewriting of
// package.json manifests.
//
// Manifests are treated as author-owned documents: wrappa only touches the
// fields it generates and leaves every other key, and the order of every
// key, exactly as the author wrote it.
package packagejson

import (
	"encoding/json"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/iancoleman/orderedmap"

	"bennypowers.dev/wrappa/fs"
)

// Document is a parsed package.json that preserves key order.
type Document struct {
	m *orderedmap.OrderedMap
}

// New returns an empty manifest document.
func New() *Document {
	return &Document{m: orderedmap.New()}
}

// Parse parses package.json data. The top-level value must be an object.
func Parse(data []byte) (*Document, error) {
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return &Document{m: m}, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*Document, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Serialize renders the manifest as two-space indented JSON.
func (d *Document) Serialize() ([]byte, error) {
	return json.MarshalIndent(d.m, "", "  ")
}

// Keys returns the manifest's top-level keys in document order.
func (d *Document) Keys() []string {
	return d.m.Keys()
}

// Get returns the value for a top-level key.
func (d *Document) Get(key string) (any, bool) {
	return d.m.Get(key)
}

// GetString returns the value for a top-level key when it is a string.
func (d *Document) GetString(key string) (string, bool) {
	if value, ok := d.m.Get(key); ok {
		if s, ok := value.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Set sets a top-level key. An existing key keeps its position in the
// document; a new key is appended.
func (d *Document) Set(key string, value any) {
	d.m.Set(key, value)
}

// Name returns the "name" field, or "" when absent.
func (d *Document) Name() string {
	name, _ := d.GetString("name")
	return name
}

// Files returns the string entries of the "files" array. Non-string
// entries are dropped.
func (d *Document) Files() []string {
	value, ok := d.m.Get("files")
	if !ok {
		return nil
	}
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			files = append(files, s)
		}
	}
	return files
}

// AddFileEntry merges a path into the "files" array. The entry is skipped
// when an existing entry already covers it: an equal entry, an entry under
// it, or a glob pattern matching it.
func (d *Document) AddFileEntry(entry string) {
	files := d.Files()
	covered := false
	for _, existing := range files {
		if covers(existing, entry) {
			covered = true
			break
		}
	}
	if !covered {
		files = append(files, entry)
	}

	// store in the same representation Parse produces
	entries := make([]any, len(files))
	for i, file := range files {
		entries[i] = file
	}
	d.m.Set("files", entries)
}

// covers reports whether an existing files entry already publishes path.
func covers(existing, path string) bool {
	if existing == path || strings.HasPrefix(existing, path+"/") {
		return true
	}
	matched, err := doublestar.Match(existing, path)
	return err == nil && matched
}

// ExportTargets returns every path referenced from the "exports" field, in
// document order. Conditional exports and fallback arrays are walked
// recursively.
func (d *Document) ExportTargets() []string {
	exports, ok := d.m.Get("exports")
	if !ok {
		return nil
	}
	var paths []string
	collectTargets(exports, &paths)
	return paths
}

func collectTargets(value any, paths *[]string) {
	switch v := value.(type) {
	case string:
		*paths = append(*paths, v)
	case orderedmap.OrderedMap:
		for _, key := range v.Keys() {
			nested, _ := v.Get(key)
			collectTargets(nested, paths)
		}
	case *orderedmap.OrderedMap:
		for _, key := range v.Keys() {
			nested, _ := v.Get(key)
			collectTargets(nested, paths)
		}
	case []any:
		for _, item := range v {
			collectTargets(item, paths)
		}
	}
}
