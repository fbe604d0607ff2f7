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

// Package check provides the check command for wrappa.
package check

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/wrappa/fs"
	"bennypowers.dev/wrappa/inspect"
	"bennypowers.dev/wrappa/internal/output"
)

// Cmd is the check cobra command that validates generated packages.
var Cmd = &cobra.Command{
	Use:   "check [package-dir|file.wasm]",
	Short: "Check a generated package or wasm binary",
	Long: `Check a generated package against its own manifest.

For a package directory, verifies that every path the manifest references
exists and that every wasm binary it ships compiles. For a single .wasm
file, compiles it and reports its size, exports, and imports.`,
	Example: `  # Check the package in the current directory
  wrappa check

  # Check a built package
  wrappa check ./my-lib

  # Validate one binary and list its exports
  wrappa check dist/my-lib.wasm

  # Machine-readable report
  wrappa check --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	target := viper.GetString("package")
	if len(args) > 0 {
		target = args[0]
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("invalid check target: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}

	if strings.HasSuffix(absTarget, ".wasm") {
		return runWasm(cmd.Context(), osfs, absTarget, format)
	}
	return runPackage(cmd.Context(), osfs, absTarget, format)
}

func runPackage(ctx context.Context, osfs fs.FileSystem, pkgDir, format string) error {
	report, err := inspect.Check(ctx, osfs, pkgDir)
	if err != nil {
		return err
	}

	rendered := report.Format()
	if format == "json" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling report: %w", err)
		}
		rendered = string(out)
	}
	if err := output.Write(osfs, rendered); err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("found %d issues", len(report.Issues))
	}
	return nil
}

func runWasm(ctx context.Context, osfs fs.FileSystem, path, format string) error {
	info, err := inspect.CheckWasm(ctx, osfs, path)
	if err != nil {
		return err
	}

	rendered := info.Format()
	if format == "json" {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling report: %w", err)
		}
		rendered = string(out)
	}
	return output.Write(osfs, rendered)
}
