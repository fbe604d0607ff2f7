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

// Package build turns wasm-bindgen output into an npm-distributable
// package.
//
// A build passes through four phases: obtain wasm-bindgen output (by
// compiling the crate or extracting a prebuilt archive), post-process that
// output, generate entrypoints for every supported environment, and
// finalize the author's package.json. The targets package declares what
// each phase produces.
package build

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"bennypowers.dev/wrappa/fs"
	"bennypowers.dev/wrappa/packagejson"
	"bennypowers.dev/wrappa/targets"
)

// Config carries the inputs of one build.
type Config struct {
	// CratePath is the Rust crate directory.
	CratePath string
	// PackageJSON is the author's manifest, rewritten in place.
	PackageJSON string
	// OutDir receives the generated package contents.
	OutDir string
	// Profile is the cargo build profile.
	Profile string
	// BindgenTar optionally names a prebuilt wasm-bindgen output archive,
	// skipping the cargo and wasm-bindgen invocations.
	BindgenTar string
	// Verify checks the finished package after the build.
	Verify bool
}

// Pipeline runs builds against an injectable filesystem and process runner.
type Pipeline struct {
	fs     fs.FileSystem
	runner Runner
	log    *log.Logger
}

// New creates a build pipeline. A nil logger discards all output.
func New(fsys fs.FileSystem, runner Runner, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{fs: fsys, runner: runner, log: logger}
}

// Run executes the full build.
func (p *Pipeline) Run(ctx context.Context, cfg Config) error {
	p.log.Info("build starting", "crate", cfg.CratePath)

	if err := p.fs.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	crateName, err := p.crateName(cfg.CratePath)
	if err != nil {
		return err
	}
	wasmName := targets.WasmName(crateName)
	p.log.Info("resolved crate", "name", crateName)

	packageName, err := p.packageName(cfg.PackageJSON, crateName)
	if err != nil {
		return err
	}

	if cfg.BindgenTar != "" {
		p.log.Info("extracting prebuilt wasm-bindgen output", "archive", cfg.BindgenTar)
		bindgenDir := filepath.Join(cfg.OutDir, "wasm_bindgen")
		if err := p.extractArchive(cfg.BindgenTar, bindgenDir); err != nil {
			return err
		}
	} else {
		if err := p.buildBindgen(ctx, cfg, crateName); err != nil {
			return err
		}
	}

	p.log.Info("post-processing wasm-bindgen output")
	if err := p.postProcess(cfg.OutDir, wasmName); err != nil {
		return err
	}

	p.log.Info("generating entrypoints")
	if err := p.generateEntrypoints(ctx, cfg.OutDir, crateName); err != nil {
		return err
	}

	p.log.Info("finalizing package")
	if err := p.finalize(cfg.PackageJSON, cfg.OutDir, wasmName, packageName); err != nil {
		return err
	}

	if cfg.Verify {
		p.log.Info("verifying package")
		if err := p.verify(ctx, cfg.PackageJSON); err != nil {
			return err
		}
	}

	p.log.Info("build complete", "out", cfg.OutDir)
	return nil
}

type cargoManifest struct {
	Package cargoPackage `toml:"package"`
}

type cargoPackage struct {
	Name string `toml:"name"`
}

// crateName reads the crate name from Cargo.toml.
func (p *Pipeline) crateName(cratePath string) (string, error) {
	manifestPath := filepath.Join(cratePath, "Cargo.toml")
	data, err := p.fs.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}
	if manifest.Package.Name == "" {
		return "", fmt.Errorf("no package name in %s", manifestPath)
	}
	return manifest.Package.Name, nil
}

// packageName reads the npm package name from the manifest, deriving one
// from the crate name when the author has not set it.
func (p *Pipeline) packageName(packageJSONPath, crateName string) (string, error) {
	doc, err := packagejson.ParseFile(p.fs, packageJSONPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", packageJSONPath, err)
	}
	if name := doc.Name(); name != "" {
		return name, nil
	}
	return strings.ReplaceAll(crateName, "_", "-"), nil
}
