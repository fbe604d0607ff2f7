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

	"github.com/iancoleman/orderedmap"

	"bennypowers.dev/wrappa/internal/mapfs"
	"bennypowers.dev/wrappa/packagejson"
)

func TestExportsGraph(t *testing.T) {
	exports := packagejson.ExportsGraph("dist", "my-lib")

	expectedSubpaths := []string{".", "./slim", "./wasm", "./wasm-base64", "./iife"}
	if got := exports.Keys(); !slices.Equal(got, expectedSubpaths) {
		t.Fatalf("subpath order mismatch:\n  got:      %v\n  expected: %v", got, expectedSubpaths)
	}

	t.Run("root export", func(t *testing.T) {
		root := nestedMap(t, exports, ".")

		expectedConditions := []string{"types", "workerd", "node", "browser", "import", "require"}
		if got := root.Keys(); !slices.Equal(got, expectedConditions) {
			t.Fatalf("condition order mismatch:\n  got:      %v\n  expected: %v", got, expectedConditions)
		}

		if got, _ := root.Get("types"); got != "./dist/index.d.ts" {
			t.Errorf("types: got %v, expected %q", got, "./dist/index.d.ts")
		}
		if got, _ := root.Get("import"); got != "./dist/esm/web.js" {
			t.Errorf("import: got %v, expected %q", got, "./dist/esm/web.js")
		}
		if got, _ := root.Get("require"); got != "./dist/cjs/web.cjs" {
			t.Errorf("require: got %v, expected %q", got, "./dist/cjs/web.cjs")
		}

		conditions := []struct {
			condition string
			esm       string
			cjs       string
		}{
			{"workerd", "./dist/esm/workerd.js", "./dist/cjs/web.cjs"},
			{"node", "./dist/esm/node.js", "./dist/cjs/node.cjs"},
			{"browser", "./dist/esm/bundler.js", "./dist/cjs/web.cjs"},
		}
		for _, tt := range conditions {
			nested := nestedMap(t, root, tt.condition)
			if got, _ := nested.Get("import"); got != tt.esm {
				t.Errorf("%s import: got %v, expected %q", tt.condition, got, tt.esm)
			}
			if got, _ := nested.Get("require"); got != tt.cjs {
				t.Errorf("%s require: got %v, expected %q", tt.condition, got, tt.cjs)
			}
		}
	})

	t.Run("slim export", func(t *testing.T) {
		slim := nestedMap(t, exports, "./slim")
		if got, _ := slim.Get("types"); got != "./dist/index.d.ts" {
			t.Errorf("types: got %v, expected %q", got, "./dist/index.d.ts")
		}
		if got, _ := slim.Get("import"); got != "./dist/esm/slim.js" {
			t.Errorf("import: got %v, expected %q", got, "./dist/esm/slim.js")
		}
		if got, _ := slim.Get("require"); got != "./dist/cjs/slim.cjs" {
			t.Errorf("require: got %v, expected %q", got, "./dist/cjs/slim.cjs")
		}
	})

	t.Run("wasm exports", func(t *testing.T) {
		if got, _ := exports.Get("./wasm"); got != "./dist/my-lib.wasm" {
			t.Errorf("./wasm: got %v, expected %q", got, "./dist/my-lib.wasm")
		}
		wasmBase64 := nestedMap(t, exports, "./wasm-base64")
		if got, _ := wasmBase64.Get("import"); got != "./dist/esm/wasm-base64.js" {
			t.Errorf("import: got %v, expected %q", got, "./dist/esm/wasm-base64.js")
		}
		if got, _ := wasmBase64.Get("require"); got != "./dist/cjs/wasm-base64.cjs" {
			t.Errorf("require: got %v, expected %q", got, "./dist/cjs/wasm-base64.cjs")
		}
	})

	t.Run("iife export", func(t *testing.T) {
		if got, _ := exports.Get("./iife"); got != "./dist/iife/index.js" {
			t.Errorf("./iife: got %v, expected %q", got, "./dist/iife/index.js")
		}
	})
}

func nestedMap(t *testing.T, parent *orderedmap.OrderedMap, key string) *orderedmap.OrderedMap {
	t.Helper()
	value, ok := parent.Get(key)
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	nested, ok := value.(*orderedmap.OrderedMap)
	if !ok {
		t.Fatalf("%q is %T, expected an object", key, value)
	}
	return nested
}

func TestUpdate(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/package.json", `{
  "name": "test-wasm-lib",
  "version": "0.1.0",
  "license": "MIT",
  "description": "Test fixture"
}`, 0644)

	if err := packagejson.Update(mfs, "/pkg/package.json", "dist", "test-wasm-lib"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	data, err := mfs.ReadFile("/pkg/package.json")
	if err != nil {
		t.Fatalf("Failed to read updated manifest: %v", err)
	}
	doc, err := packagejson.Parse(data)
	if err != nil {
		t.Fatalf("Failed to parse updated manifest: %v", err)
	}

	fields := []struct {
		key      string
		expected string
	}{
		{"type", "module"},
		{"main", "./dist/cjs/node.cjs"},
		{"module", "./dist/esm/bundler.js"},
		{"types", "./dist/index.d.ts"},
	}
	for _, tt := range fields {
		if got, _ := doc.GetString(tt.key); got != tt.expected {
			t.Errorf("%s: got %q, expected %q", tt.key, got, tt.expected)
		}
	}

	if got := doc.Files(); !slices.Equal(got, []string{"dist"}) {
		t.Errorf("files: got %v, expected %v", got, []string{"dist"})
	}

	// Author keys keep their positions; generated keys follow.
	keys := doc.Keys()
	if len(keys) < 4 || !slices.Equal(keys[:4], []string{"name", "version", "license", "description"}) {
		t.Errorf("author keys displaced: %v", keys)
	}

	// Every export target points into the package.
	for _, target := range doc.ExportTargets() {
		if len(target) < 2 || target[:2] != "./" {
			t.Errorf("export target %q is not package-relative", target)
		}
	}
}

func TestUpdatePreservesUnknownFields(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/pkg/package.json", `{
  "name": "pkg",
  "repository": {
    "type": "git",
    "url": "https://example.com/pkg.git"
  },
  "sideEffects": false
}`, 0644)

	if err := packagejson.Update(mfs, "/pkg/package.json", "dist", "pkg"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	data, err := mfs.ReadFile("/pkg/package.json")
	if err != nil {
		t.Fatalf("Failed to read updated manifest: %v", err)
	}
	doc, err := packagejson.Parse(data)
	if err != nil {
		t.Fatalf("Failed to parse updated manifest: %v", err)
	}

	if _, ok := doc.Get("repository"); !ok {
		t.Error("repository field lost")
	}
	if value, ok := doc.Get("sideEffects"); !ok || value != false {
		t.Errorf("sideEffects: got %v, %v; expected false, true", value, ok)
	}
}

func TestUpdateMissingManifest(t *testing.T) {
	mfs := mapfs.New()
	if err := packagejson.Update(mfs, "/pkg/package.json", "dist", "pkg"); err == nil {
		t.Error("Update should fail when the manifest does not exist")
	}
}
