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
package packagejson_test

import (
	"slices"
	"testing"

	"bennypowers.dev/wrappa/packagejson"
)

func TestParse(t *testing.T) {
	data := []byte(`{
  "name": "test-wasm-lib",
  "version": "0.1.0",
  "license": "MIT",
  "description": "Test fixture"
}`)

	doc, err := packagejson.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := doc.Name(); got != "test-wasm-lib" {
		t.Errorf("Name: got %q, expected %q", got, "test-wasm-lib")
	}

	expected := []string{"name", "version", "license", "description"}
	if got := doc.Keys(); !slices.Equal(got, expected) {
		t.Errorf("Keys mismatch:\n  got:      %v\n  expected: %v", got, expected)
	}
}

func TestParseRejectsNonObject(t *testing.T) {
	if _, err := packagejson.Parse([]byte(`["not", "an", "object"]`)); err == nil {
		t.Error("Parse should fail for a non-object manifest")
	}
}

func TestGetString(t *testing.T) {
	doc, err := packagejson.Parse([]byte(`{"name": "pkg", "private": true}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got, ok := doc.GetString("name"); !ok || got != "pkg" {
		t.Errorf("GetString(name): got %q, %v", got, ok)
	}
	if _, ok := doc.GetString("private"); ok {
		t.Error("GetString(private) should report false for a non-string value")
	}
	if _, ok := doc.GetString("missing"); ok {
		t.Error("GetString(missing) should report false")
	}
}

func TestSetPreservesPosition(t *testing.T) {
	doc, err := packagejson.Parse([]byte(`{"name": "pkg", "type": "commonjs", "version": "1.0.0"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	doc.Set("type", "module")

	expected := []string{"name", "type", "version"}
	if got := doc.Keys(); !slices.Equal(got, expected) {
		t.Errorf("Keys mismatch after Set:\n  got:      %v\n  expected: %v", got, expected)
	}
	if got, _ := doc.GetString("type"); got != "module" {
		t.Errorf("type: got %q, expected %q", got, "module")
	}
}

func TestAddFileEntry(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		expected []string
	}{
		{
			name:     "no files array",
			manifest: `{"name": "pkg"}`,
			expected: []string{"dist"},
		},
		{
			name:     "unrelated entries",
			manifest: `{"files": ["src", "README.md"]}`,
			expected: []string{"src", "README.md", "dist"},
		},
		{
			name:     "exact entry present",
			manifest: `{"files": ["dist"]}`,
			expected: []string{"dist"},
		},
		{
			name:     "entry under dist present",
			manifest: `{"files": ["dist/esm"]}`,
			expected: []string{"dist/esm"},
		},
		{
			name:     "glob covering dist",
			manifest: `{"files": ["dist/**"]}`,
			expected: []string{"dist/**"},
		},
		{
			name:     "non-string entries dropped",
			manifest: `{"files": [42, "src"]}`,
			expected: []string{"src", "dist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := packagejson.Parse([]byte(tt.manifest))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			doc.AddFileEntry("dist")

			if got := doc.Files(); !slices.Equal(got, tt.expected) {
				t.Errorf("Files mismatch:\n  got:      %v\n  expected: %v", got, tt.expected)
			}
		})
	}
}

func TestAddFileEntryIdempotent(t *testing.T) {
	doc, err := packagejson.Parse([]byte(`{"files": ["src"]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	doc.AddFileEntry("dist")
	doc.AddFileEntry("dist")

	expected := []string{"src", "dist"}
	if got := doc.Files(); !slices.Equal(got, expected) {
		t.Errorf("Files mismatch after repeated merge:\n  got:      %v\n  expected: %v", got, expected)
	}
}

func TestExportTargets(t *testing.T) {
	doc, err := packagejson.Parse([]byte(`{
  "exports": {
    ".": {
      "types": "./dist/index.d.ts",
      "node": {
        "import": "./dist/esm/node.js",
        "require": "./dist/cjs/node.cjs"
      },
      "import": "./dist/esm/web.js"
    },
    "./wasm": "./dist/pkg.wasm",
    "./fallback": ["./dist/a.js", "./dist/b.js"]
  }
}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := []string{
		"./dist/index.d.ts",
		"./dist/esm/node.js",
		"./dist/cjs/node.cjs",
		"./dist/esm/web.js",
		"./dist/pkg.wasm",
		"./dist/a.js",
		"./dist/b.js",
	}
	if got := doc.ExportTargets(); !slices.Equal(got, expected) {
		t.Errorf("ExportTargets mismatch:\n  got:      %v\n  expected: %v", got, expected)
	}
}

func TestExportTargetsNoExports(t *testing.T) {
	doc, err := packagejson.Parse([]byte(`{"name": "pkg"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.ExportTargets(); got != nil {
		t.Errorf("ExportTargets: got %v, expected nil", got)
	}
}

func TestSerializePreservesOrder(t *testing.T) {
	input := []byte(`{
  "zebra": "last alphabetically, first in document",
  "name": "pkg",
  "alpha": "first alphabetically, last in document"
}`)

	doc, err := packagejson.Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	data, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	reparsed, err := packagejson.Parse(data)
	if err != nil {
		t.Fatalf("Parse of serialized output failed: %v", err)
	}

	expected := []string{"zebra", "name", "alpha"}
	if got := reparsed.Keys(); !slices.Equal(got, expected) {
		t.Errorf("Keys mismatch after round trip:\n  got:      %v\n  expected: %v", got, expected)
	}
}
