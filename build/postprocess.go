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

package build

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/wrappa/targets"
)

// postProcess reworks raw wasm-bindgen output for packaging: the nodejs
// glue gets a .cjs extension, the web glue gets the @vite-ignore patch, and
// the web wasm binary is re-encoded as a base64 ESM module.
func (p *Pipeline) postProcess(outDir, wasmName string) error {
	// The package declares "type": "module", so the CommonJS glue from the
	// nodejs target must not keep a .js extension.
	nodejsDir := filepath.Join(outDir, filepath.FromSlash(targets.BindgenDir(targets.TargetNodejs)))
	jsFile := filepath.Join(nodejsDir, wasmName+".js")
	cjsFile := filepath.Join(nodejsDir, wasmName+".cjs")
	if p.fs.Exists(jsFile) {
		p.log.Debug("renaming nodejs glue", "to", cjsFile)
		if err := p.fs.Rename(jsFile, cjsFile); err != nil {
			return err
		}
	}

	if err := p.applyViteFix(outDir, wasmName); err != nil {
		return err
	}

	return p.writeBase64Module(outDir, wasmName)
}

// applyViteFix marks the wasm URL in the web glue with @vite-ignore so
// vite's import analysis does not duplicate the wasm asset.
func (p *Pipeline) applyViteFix(outDir, wasmName string) error {
	jsFile := filepath.Join(outDir, filepath.FromSlash(targets.BindgenJS(targets.TargetWeb, wasmName)))
	content, err := p.fs.ReadFile(jsFile)
	if err != nil {
		return fmt.Errorf("failed to read web glue: %w", err)
	}

	pattern := fmt.Sprintf("new URL('%s_bg.wasm', import.meta.url)", wasmName)
	replacement := fmt.Sprintf("new /* @vite-ignore */ URL('%s_bg.wasm', import.meta.url)", wasmName)
	patched := strings.ReplaceAll(string(content), pattern, replacement)

	p.log.Debug("applied @vite-ignore fix", "path", jsFile)
	return p.fs.WriteFile(jsFile, []byte(patched), 0644)
}

// writeBase64Module encodes the web target's wasm binary as an ESM module
// exporting a base64 string.
func (p *Pipeline) writeBase64Module(outDir, wasmName string) error {
	wasmFile := filepath.Join(outDir, filepath.FromSlash(targets.BindgenWasm(targets.TargetWeb, wasmName)))
	wasmBytes, err := p.fs.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("failed to read wasm binary: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(wasmBytes)
	esmPath := filepath.Join(outDir, filepath.FromSlash(targets.WasmBase64ESM()))
	if err := p.fs.MkdirAll(filepath.Dir(esmPath), 0755); err != nil {
		return err
	}

	content := "export const wasmBase64 = \"" + encoded + "\";\n"
	p.log.Debug("generated base64 wasm module", "path", esmPath, "bytes", len(wasmBytes))
	return p.fs.WriteFile(esmPath, []byte(content), 0644)
}
