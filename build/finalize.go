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
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/wrappa/packagejson"
	"bennypowers.dev/wrappa/targets"
)

// finalize rewrites the author's manifest and assembles the remaining
// package files: the type declarations, the standalone wasm binary, and
// the CJS form of the base64 module.
func (p *Pipeline) finalize(packageJSONPath, outDir, wasmName, packageName string) error {
	packageDir := filepath.Dir(packageJSONPath)
	dist, err := relativeOutDir(packageDir, outDir)
	if err != nil {
		return err
	}

	if err := packagejson.Update(p.fs, packageJSONPath, dist, packageName); err != nil {
		return err
	}
	p.log.Debug("updated manifest", "path", packageJSONPath)

	// declarations come from the nodejs target; all targets emit the same API
	dtsSrc := filepath.Join(outDir,
		filepath.FromSlash(targets.BindgenDir(targets.TargetNodejs)), wasmName+".d.ts")
	dtsDest := filepath.Join(outDir, filepath.FromSlash(targets.TypeDeclarations()))
	if p.fs.Exists(dtsSrc) {
		if err := p.copyFile(dtsSrc, dtsDest); err != nil {
			return err
		}
		p.log.Debug("copied type declarations", "path", dtsDest)
	}

	wasmSrc := filepath.Join(outDir, filepath.FromSlash(targets.BindgenWasm(targets.TargetWeb, wasmName)))
	wasmDest := filepath.Join(outDir, filepath.FromSlash(targets.StandaloneWasm(packageName)))
	if p.fs.Exists(wasmSrc) {
		if err := p.copyFile(wasmSrc, wasmDest); err != nil {
			return err
		}
		p.log.Debug("copied standalone wasm", "path", wasmDest)
	}

	return p.writeCJSBase64(outDir)
}

// writeCJSBase64 derives the CJS base64 module from the ESM one written
// during post-processing.
func (p *Pipeline) writeCJSBase64(outDir string) error {
	esmPath := filepath.Join(outDir, filepath.FromSlash(targets.WasmBase64ESM()))
	content, err := p.fs.ReadFile(esmPath)
	if err != nil {
		return fmt.Errorf("failed to read base64 module: %w", err)
	}

	parts := strings.Split(string(content), `"`)
	if len(parts) < 2 {
		return fmt.Errorf("malformed base64 module at %s", esmPath)
	}
	encoded := parts[1]

	cjsPath := filepath.Join(outDir, filepath.FromSlash(targets.WasmBase64CJS()))
	cjs := "module.exports.wasmBase64 = \"" + encoded + "\";\n"
	p.log.Debug("generated CJS base64 module", "path", cjsPath)
	return p.fs.WriteFile(cjsPath, []byte(cjs), 0644)
}

// copyFile copies a file through the pipeline's filesystem.
func (p *Pipeline) copyFile(src, dest string) error {
	data, err := p.fs.ReadFile(src)
	if err != nil {
		return err
	}
	return p.fs.WriteFile(dest, data, 0644)
}

// relativeOutDir computes the output directory's path relative to the
// manifest directory, slash-separated for use inside the manifest.
func relativeOutDir(packageDir, outDir string) (string, error) {
	packageAbs, err := filepath.Abs(packageDir)
	if err != nil {
		return "", err
	}
	outAbs, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(packageAbs, outAbs)
	if err != nil {
		return "", fmt.Errorf("output directory must be reachable from the manifest: %w", err)
	}
	return filepath.ToSlash(rel), nil
}
