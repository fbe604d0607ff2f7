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
	"context"
	"path/filepath"

	"github.com/iancoleman/strcase"

	"bennypowers.dev/wrappa/targets"
)

// generateEntrypoints writes the ESM and CJS entrypoints for every
// environment, then bundles the forms that cannot re-export directly.
func (p *Pipeline) generateEntrypoints(ctx context.Context, outDir, crateName string) error {
	wasmName := targets.WasmName(crateName)

	for _, dir := range []string{"esm", "cjs", "iife"} {
		if err := p.fs.MkdirAll(filepath.Join(outDir, dir), 0755); err != nil {
			return err
		}
	}

	p.log.Debug("writing ESM entrypoints")
	for _, env := range targets.AllEnvironments() {
		content := targets.GenerateESM(env, wasmName)
		path := filepath.Join(outDir, filepath.FromSlash(targets.ESMEntrypoint(env)))
		if err := p.fs.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}

	p.log.Debug("writing CJS entrypoints")
	for _, env := range targets.AllEnvironments() {
		content, ok := targets.GenerateCJS(env, wasmName)
		if !ok {
			continue
		}
		path := filepath.Join(outDir, filepath.FromSlash(targets.CJSEntrypoint(env)))
		if err := p.fs.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}

	return p.bundle(ctx, outDir, crateName)
}

// bundle produces the iife bundle from the web entrypoint and the CJS
// bundles for environments whose ESM entrypoints cannot simply be required.
func (p *Pipeline) bundle(ctx context.Context, outDir, crateName string) error {
	esbuild, err := FindEsbuild(ctx, p.runner)
	if err != nil {
		return err
	}
	p.log.Debug("bundling with esbuild", "esbuild", esbuild)

	webEntry := filepath.Join(outDir, filepath.FromSlash(targets.ESMEntrypoint(targets.Web)))
	iifeOut := filepath.Join(outDir, filepath.FromSlash(targets.IifeBundle()))
	globalName := strcase.ToCamel(crateName)
	if err := p.runEsbuild(ctx, esbuild, webEntry, iifeOut, "iife", globalName); err != nil {
		return err
	}

	for _, env := range targets.AllEnvironments() {
		if !env.NeedsCJSBundle() {
			continue
		}
		esmPath := filepath.Join(outDir, filepath.FromSlash(targets.ESMEntrypoint(env)))
		cjsPath := filepath.Join(outDir, filepath.FromSlash(targets.CJSEntrypoint(env)))
		if err := p.runEsbuild(ctx, esbuild, esmPath, cjsPath, "cjs", ""); err != nil {
			return err
		}
	}

	return nil
}
