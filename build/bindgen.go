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
	"encoding/json"
	"fmt"
	"path/filepath"

	"bennypowers.dev/wrappa/targets"
)

// buildBindgen compiles the crate to wasm and runs wasm-bindgen for every
// target.
func (p *Pipeline) buildBindgen(ctx context.Context, cfg Config, crateName string) error {
	p.log.Info("building wasm", "profile", cfg.Profile)

	manifestPath := filepath.Join(cfg.CratePath, "Cargo.toml")
	profileFlag := "--profile=" + cfg.Profile
	if cfg.Profile == "release" {
		profileFlag = "--release"
	}

	err := p.runner.Run(ctx, "cargo",
		"build",
		"--target", "wasm32-unknown-unknown",
		profileFlag,
		"--manifest-path", manifestPath,
	)
	if err != nil {
		return fmt.Errorf("cargo build failed: %w", err)
	}

	targetDir := p.cargoTargetDir(ctx, cfg.CratePath)
	wasmFile := filepath.Join(
		targetDir,
		"wasm32-unknown-unknown",
		cfg.Profile,
		targets.WasmName(crateName)+".wasm",
	)
	if !p.fs.Exists(wasmFile) {
		return fmt.Errorf("wasm artifact not found at %s", wasmFile)
	}

	bindgenDir := filepath.Join(cfg.OutDir, "wasm_bindgen")
	if err := p.fs.MkdirAll(bindgenDir, 0755); err != nil {
		return err
	}

	for _, target := range targets.AllTargets() {
		p.log.Info("running wasm-bindgen", "target", target)
		outDir := filepath.Join(bindgenDir, string(target))
		if err := p.fs.MkdirAll(outDir, 0755); err != nil {
			return err
		}

		err := p.runner.Run(ctx, "wasm-bindgen",
			wasmFile,
			"--out-dir", outDir,
			"--target", string(target),
			"--weak-refs",
		)
		if err != nil {
			return fmt.Errorf("wasm-bindgen failed for target %q: %w", target, err)
		}
	}

	return nil
}

// cargoTargetDir locates cargo's target directory, which sits outside the
// crate in workspaces. Falls back to the crate-local target dir when cargo
// metadata is unavailable.
func (p *Pipeline) cargoTargetDir(ctx context.Context, cratePath string) string {
	manifestPath := filepath.Join(cratePath, "Cargo.toml")
	out, err := p.runner.Output(ctx, "cargo",
		"metadata",
		"--format-version=1",
		"--no-deps",
		"--manifest-path", manifestPath,
	)
	if err == nil {
		var metadata struct {
			TargetDirectory string `json:"target_directory"`
		}
		if json.Unmarshal(out, &metadata) == nil && metadata.TargetDirectory != "" {
			return metadata.TargetDirectory
		}
	}
	return filepath.Join(cratePath, "target")
}
