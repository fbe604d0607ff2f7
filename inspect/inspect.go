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

// Package inspect validates generated packages: every path the manifest
// references must exist, and every wasm binary it ships must compile.
package inspect

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero"

	"bennypowers.dev/wrappa/fs"
	"bennypowers.dev/wrappa/packagejson"
)

// Issue describes a single problem found in a package.
type Issue struct {
	// Path is the manifest field or target the issue concerns.
	Path string `json:"path"`
	// Problem says what is wrong with it.
	Problem string `json:"problem"`
}

// WasmInfo summarizes a validated wasm binary.
type WasmInfo struct {
	Path    string   `json:"path"`
	Size    int      `json:"size"`
	Exports []string `json:"exports"`
	Imports []string `json:"imports"`
}

// Report is the result of checking one package.
type Report struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	// Targets are the distinct paths the exports field references, in
	// manifest order.
	Targets []string   `json:"targets"`
	Wasm    []WasmInfo `json:"wasm,omitempty"`
	Issues  []Issue    `json:"issues,omitempty"`
}

// OK reports whether the package passed every check.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Format renders the report for CLI output.
func (r *Report) Format() string {
	var b strings.Builder

	name := r.Name
	if name == "" {
		name = "(unnamed package)"
	}
	if r.Version != "" {
		fmt.Fprintf(&b, "package %s@%s\n", name, r.Version)
	} else {
		fmt.Fprintf(&b, "package %s\n", name)
	}

	fmt.Fprintf(&b, "  export targets: %d\n", len(r.Targets))
	for _, w := range r.Wasm {
		fmt.Fprintf(&b, "  wasm %s: %d bytes, %d exported functions\n", w.Path, w.Size, len(w.Exports))
	}

	if r.OK() {
		b.WriteString("  ok")
	} else {
		for i, issue := range r.Issues {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "  issue %s: %s", issue.Path, issue.Problem)
		}
	}
	return b.String()
}

// Check validates the package rooted at pkgDir against its own manifest.
// It returns an error only when the manifest itself cannot be read;
// everything else is reported as issues.
func Check(ctx context.Context, fsys fs.FileSystem, pkgDir string) (*Report, error) {
	manifestPath := filepath.Join(pkgDir, "package.json")
	doc, err := packagejson.ParseFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	report := &Report{Name: doc.Name()}
	if version, ok := doc.GetString("version"); ok {
		report.Version = version
	}

	for _, key := range []string{"main", "module", "types"} {
		target, ok := doc.GetString(key)
		if !ok {
			report.Issues = append(report.Issues, Issue{
				Path:    key,
				Problem: "field missing from manifest",
			})
			continue
		}
		if !fsys.Exists(resolveTarget(pkgDir, target)) {
			report.Issues = append(report.Issues, Issue{
				Path:    target,
				Problem: key + " target does not exist",
			})
		}
	}

	targets := doc.ExportTargets()
	if len(targets) == 0 {
		report.Issues = append(report.Issues, Issue{
			Path:    "exports",
			Problem: "manifest has no export targets",
		})
	}

	seen := make(map[string]bool)
	for _, target := range targets {
		if seen[target] {
			continue
		}
		seen[target] = true
		report.Targets = append(report.Targets, target)

		resolved := resolveTarget(pkgDir, target)
		if !fsys.Exists(resolved) {
			report.Issues = append(report.Issues, Issue{
				Path:    target,
				Problem: "export target does not exist",
			})
			continue
		}

		if strings.HasSuffix(target, ".wasm") {
			info, err := validateWasm(ctx, fsys, resolved)
			if err != nil {
				report.Issues = append(report.Issues, Issue{
					Path:    target,
					Problem: err.Error(),
				})
				continue
			}
			info.Path = target
			report.Wasm = append(report.Wasm, *info)
		}
	}

	return report, nil
}

// CheckWasm validates a single wasm binary outside any package context.
func CheckWasm(ctx context.Context, fsys fs.FileSystem, path string) (*WasmInfo, error) {
	info, err := validateWasm(ctx, fsys, path)
	if err != nil {
		return nil, err
	}
	info.Path = path
	return info, nil
}

// Format renders the binary summary for CLI output.
func (w *WasmInfo) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wasm %s: %d bytes", w.Path, w.Size)
	fmt.Fprintf(&b, "\n  exported functions: %d", len(w.Exports))
	for _, name := range w.Exports {
		fmt.Fprintf(&b, "\n    %s", name)
	}
	fmt.Fprintf(&b, "\n  imported functions: %d", len(w.Imports))
	for _, name := range w.Imports {
		fmt.Fprintf(&b, "\n    %s", name)
	}
	return b.String()
}

// resolveTarget turns a package-relative manifest path into a filesystem
// path under pkgDir.
func resolveTarget(pkgDir, target string) string {
	return filepath.Join(pkgDir, filepath.FromSlash(strings.TrimPrefix(target, "./")))
}

// validateWasm compiles the binary to prove it is a well-formed module.
func validateWasm(ctx context.Context, fsys fs.FileSystem, path string) (*WasmInfo, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer runtime.Close(ctx)

	compiled, err := runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("invalid wasm module: %w", err)
	}
	defer compiled.Close(ctx)

	exports := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		exports = append(exports, name)
	}
	slices.Sort(exports)

	imports := make([]string, 0, len(compiled.ImportedFunctions()))
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		imports = append(imports, module+"."+name)
	}
	slices.Sort(imports)

	return &WasmInfo{Size: len(data), Exports: exports, Imports: imports}, nil
}
