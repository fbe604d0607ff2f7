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
package targets_test

import (
	"testing"

	"bennypowers.dev/wrappa/targets"
)

func TestWasmName(t *testing.T) {
	tests := []struct {
		crate    string
		expected string
	}{
		{"my-lib", "my_lib"},
		{"already_snake", "already_snake"},
		{"multi-part-name", "multi_part_name"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.crate, func(t *testing.T) {
			if got := targets.WasmName(tt.crate); got != tt.expected {
				t.Errorf("WasmName(%q): got %q, expected %q", tt.crate, got, tt.expected)
			}
		})
	}
}

func TestBindgenPaths(t *testing.T) {
	if got := targets.BindgenDir(targets.TargetNodejs); got != "wasm_bindgen/nodejs" {
		t.Errorf("BindgenDir: got %q, expected %q", got, "wasm_bindgen/nodejs")
	}

	tests := []struct {
		name     string
		target   targets.BindgenTarget
		expected string
	}{
		{"nodejs uses cjs extension", targets.TargetNodejs, "wasm_bindgen/nodejs/my_lib.cjs"},
		{"web uses js extension", targets.TargetWeb, "wasm_bindgen/web/my_lib.js"},
		{"bundler uses js extension", targets.TargetBundler, "wasm_bindgen/bundler/my_lib.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := targets.BindgenJS(tt.target, "my_lib"); got != tt.expected {
				t.Errorf("BindgenJS: got %q, expected %q", got, tt.expected)
			}
		})
	}

	if got := targets.BindgenWasm(targets.TargetWeb, "my_lib"); got != "wasm_bindgen/web/my_lib_bg.wasm" {
		t.Errorf("BindgenWasm: got %q, expected %q", got, "wasm_bindgen/web/my_lib_bg.wasm")
	}
}

func TestEntrypointPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"esm node", targets.ESMEntrypoint(targets.Node), "esm/node.js"},
		{"esm web", targets.ESMEntrypoint(targets.Web), "esm/web.js"},
		{"esm slim", targets.ESMEntrypoint(targets.Slim), "esm/slim.js"},
		{"cjs node", targets.CJSEntrypoint(targets.Node), "cjs/node.cjs"},
		{"cjs web", targets.CJSEntrypoint(targets.Web), "cjs/web.cjs"},
		{"iife bundle", targets.IifeBundle(), "iife/index.js"},
		{"wasm base64 esm", targets.WasmBase64ESM(), "esm/wasm-base64.js"},
		{"wasm base64 cjs", targets.WasmBase64CJS(), "cjs/wasm-base64.cjs"},
		{"type declarations", targets.TypeDeclarations(), "index.d.ts"},
		{"standalone wasm", targets.StandaloneWasm("my-lib"), "my-lib.wasm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}
