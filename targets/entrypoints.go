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

import "fmt"

const base64EmbeddedEntrypoint = `import { initSync } from '../wasm_bindgen/web/%[1]s.js';
import { wasmBase64 } from './wasm-base64.js';
const bytes = Uint8Array.from(atob(wasmBase64), c => c.charCodeAt(0));
initSync(bytes);
export * from '../wasm_bindgen/web/%[1]s.js';
`

const syncWasmImportEntrypoint = `import * as exports from '../wasm_bindgen/web/%[1]s.js';
import { initSync } from '../wasm_bindgen/web/%[1]s.js';
import wasmModule from '../wasm_bindgen/web/%[1]s_bg.wasm';
initSync({ module: wasmModule });
export * from '../wasm_bindgen/web/%[1]s.js';
`

const manualEntrypoint = `export * from '../wasm_bindgen/web/%[1]s.js';
export { default } from '../wasm_bindgen/web/%[1]s.js';
`

// GenerateESM returns the JavaScript source for an environment's ESM
// entrypoint. Entrypoints live under esm/, so the wasm-bindgen output they
// re-export sits one directory up.
func GenerateESM(env Environment, wasmName string) string {
	switch env.InitStrategy() {
	case Base64Embedded:
		return fmt.Sprintf(base64EmbeddedEntrypoint, wasmName)
	case SyncWasmImport:
		return fmt.Sprintf(syncWasmImportEntrypoint, wasmName)
	case Manual:
		return fmt.Sprintf(manualEntrypoint, wasmName)
	default:
		// AutoNodejs and BundlerPassthrough re-export their wasm-bindgen
		// target, which initializes itself.
		return fmt.Sprintf("export * from '../%s';\n", BindgenJS(env.BindgenTarget(), wasmName))
	}
}

// GenerateCJS returns the JavaScript source for an environment's CJS
// entrypoint, or ok=false when the environment's CJS form is produced by
// bundling instead. Only Node can require the wasm-bindgen output directly.
func GenerateCJS(env Environment, wasmName string) (content string, ok bool) {
	if env != Node {
		return "", false
	}
	return fmt.Sprintf("module.exports = require('../%s');\n", BindgenJS(TargetNodejs, wasmName)), true
}
