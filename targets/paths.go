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

package targets

import (
	"fmt"
	"strings"
)

// Path construction for the generated package, centralized here so every
// phase agrees on the layout. All paths are relative to the output
// directory and slash-separated regardless of host OS, because they end up
// in JavaScript import specifiers and package.json exports.

// WasmName converts a crate name to the basename wasm-bindgen uses for its
// output files. Cargo turns hyphens into underscores for artifact names.
func WasmName(crateName string) string {
	return strings.ReplaceAll(crateName, "-", "_")
}

// BindgenDir returns the wasm-bindgen output directory for a target:
// wasm_bindgen/{target}.
func BindgenDir(target BindgenTarget) string {
	return "wasm_bindgen/" + string(target)
}

// BindgenJS returns the wasm-bindgen JS glue file for a target:
// wasm_bindgen/{target}/{name}.js, with a .cjs extension for nodejs.
func BindgenJS(target BindgenTarget, wasmName string) string {
	ext := "js"
	if target == TargetNodejs {
		ext = "cjs"
	}
	return fmt.Sprintf("%s/%s.%s", BindgenDir(target), wasmName, ext)
}

// BindgenWasm returns the wasm binary wasm-bindgen emits alongside its JS
// glue: wasm_bindgen/{target}/{name}_bg.wasm.
func BindgenWasm(target BindgenTarget, wasmName string) string {
	return fmt.Sprintf("%s/%s_bg.wasm", BindgenDir(target), wasmName)
}

// ESMEntrypoint returns the ESM entrypoint path for an environment:
// esm/{stem}.js.
func ESMEntrypoint(env Environment) string {
	return "esm/" + env.FileStem() + ".js"
}

// CJSEntrypoint returns the CJS entrypoint path for an environment:
// cjs/{stem}.cjs.
func CJSEntrypoint(env Environment) string {
	return "cjs/" + env.FileStem() + ".cjs"
}

// IifeBundle returns the script-tag bundle path: iife/index.js.
func IifeBundle() string {
	return "iife/index.js"
}

// WasmBase64ESM returns the ESM module carrying the base64-encoded wasm.
func WasmBase64ESM() string {
	return "esm/wasm-base64.js"
}

// WasmBase64CJS returns the CJS module carrying the base64-encoded wasm.
func WasmBase64CJS() string {
	return "cjs/wasm-base64.cjs"
}

// TypeDeclarations returns the TypeScript declarations path: index.d.ts.
func TypeDeclarations() string {
	return "index.d.ts"
}

// StandaloneWasm returns the standalone wasm binary path for direct
// consumption: {package}.wasm.
func StandaloneWasm(packageName string) string {
	return packageName + ".wasm"
}
