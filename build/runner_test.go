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
package build_test

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bennypowers.dev/wrappa/internal/mapfs"
)

// minimalWasm is the smallest valid wasm module: magic and version only.
const minimalWasm = "\x00asm\x01\x00\x00\x00"

const declarations = "export function add(a: number, b: number): number;\n"

// webGlueTemplate imitates the URL fallback wasm-bindgen emits for the web
// target, which the vite fix has to patch.
const webGlueTemplate = `let wasm;
export function initSync(module) {
    wasm = module;
}
async function __wbg_init(module_or_path) {
    if (typeof module_or_path === 'undefined') {
        module_or_path = new URL('%[1]s_bg.wasm', import.meta.url);
    }
    return module_or_path;
}
export default __wbg_init;
`

type call struct {
	name string
	args []string
}

// fakeRunner simulates cargo, wasm-bindgen, and esbuild against the
// in-memory filesystem, recording every invocation.
type fakeRunner struct {
	mfs     *mapfs.MapFileSystem
	runs    []call
	outputs []call

	// esbuild names the candidate that answers the --version probe; all
	// other candidates fail it. Empty means no esbuild anywhere.
	esbuild string

	// wasmBytes is the wasm binary content the fake tools emit.
	wasmBytes string

	noDts       bool
	cargoErr    error
	metadataErr error
	bindgenErr  error
	esbuildErr  error
}

func newFakeRunner(mfs *mapfs.MapFileSystem) *fakeRunner {
	return &fakeRunner{mfs: mfs, esbuild: "esbuild", wasmBytes: minimalWasm}
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.runs = append(r.runs, call{name: name, args: args})

	switch {
	case name == "cargo":
		if r.cargoErr != nil {
			return r.cargoErr
		}
		return r.simulateCargoBuild(args)
	case name == "wasm-bindgen":
		if r.bindgenErr != nil {
			return r.bindgenErr
		}
		return r.simulateBindgen(args)
	case strings.HasSuffix(name, "esbuild"):
		if r.esbuildErr != nil {
			return r.esbuildErr
		}
		return r.simulateEsbuild(args)
	}
	return fmt.Errorf("unexpected command %q", name)
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.outputs = append(r.outputs, call{name: name, args: args})

	if len(args) == 1 && args[0] == "--version" {
		if name == r.esbuild {
			return []byte("0.25.0\n"), nil
		}
		return nil, errors.New("exec: not found")
	}

	if name == "cargo" && len(args) > 0 && args[0] == "metadata" {
		if r.metadataErr != nil {
			return nil, r.metadataErr
		}
		crateDir := filepath.Dir(flagValue(args, "--manifest-path"))
		targetDir := filepath.Join(crateDir, "target")
		return []byte(fmt.Sprintf(`{"target_directory": %q}`, targetDir)), nil
	}

	return nil, fmt.Errorf("unexpected command %q", name)
}

func (r *fakeRunner) simulateCargoBuild(args []string) error {
	if len(args) == 0 || args[0] != "build" {
		return nil
	}

	profile := "release"
	for _, arg := range args {
		if strings.HasPrefix(arg, "--profile=") {
			profile = strings.TrimPrefix(arg, "--profile=")
		}
	}

	crateDir := filepath.Dir(flagValue(args, "--manifest-path"))
	data, err := r.mfs.ReadFile(filepath.Join(crateDir, "Cargo.toml"))
	if err != nil {
		return err
	}
	var manifest struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return err
	}

	wasmName := strings.ReplaceAll(manifest.Package.Name, "-", "_")
	artifact := filepath.Join(crateDir, "target", "wasm32-unknown-unknown", profile, wasmName+".wasm")
	r.mfs.AddFile(artifact, r.wasmBytes, 0644)
	return nil
}

func (r *fakeRunner) simulateBindgen(args []string) error {
	if len(args) == 0 {
		return errors.New("wasm-bindgen: no input")
	}
	wasmName := strings.TrimSuffix(path.Base(filepath.ToSlash(args[0])), ".wasm")
	outDir := flagValue(args, "--out-dir")
	target := flagValue(args, "--target")

	switch target {
	case "nodejs":
		r.mfs.AddFile(filepath.Join(outDir, wasmName+".js"), "// nodejs glue\nmodule.exports.add = () => {};\n", 0644)
	case "web":
		r.mfs.AddFile(filepath.Join(outDir, wasmName+".js"), fmt.Sprintf(webGlueTemplate, wasmName), 0644)
	case "bundler":
		r.mfs.AddFile(filepath.Join(outDir, wasmName+".js"), "// bundler glue\nexport function add() {}\n", 0644)
	default:
		return fmt.Errorf("unexpected wasm-bindgen target %q", target)
	}

	r.mfs.AddFile(filepath.Join(outDir, wasmName+"_bg.wasm"), r.wasmBytes, 0644)
	if !r.noDts {
		r.mfs.AddFile(filepath.Join(outDir, wasmName+".d.ts"), declarations, 0644)
	}
	return nil
}

func (r *fakeRunner) simulateEsbuild(args []string) error {
	outfile := ""
	input := ""
	if len(args) > 0 {
		input = args[0]
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--outfile=") {
			outfile = strings.TrimPrefix(arg, "--outfile=")
		}
	}
	if outfile == "" {
		return errors.New("esbuild: missing --outfile")
	}
	if !r.mfs.Exists(input) {
		return fmt.Errorf("esbuild: no such input %q", input)
	}
	r.mfs.AddFile(outfile, "// bundled by esbuild\n", 0644)
	return nil
}

// flagValue returns the argument following a flag, or "".
func flagValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// newTestCrate seeds the filesystem with a minimal wasm-bindgen crate.
func newTestCrate(t *testing.T) *mapfs.MapFileSystem {
	t.Helper()
	mfs := mapfs.New()
	mfs.AddFile("/crate/Cargo.toml", "[package]\nname = \"my-lib\"\nversion = \"0.1.0\"\nedition = \"2024\"\n", 0644)
	mfs.AddFile("/crate/package.json", `{
  "name": "test-wasm-lib",
  "version": "0.1.0",
  "license": "MIT",
  "description": "Test fixture"
}`, 0644)
	return mfs
}
