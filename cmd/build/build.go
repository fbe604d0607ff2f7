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

// Package build provides the build command for wrappa.
package build

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/wrappa/build"
	"bennypowers.dev/wrappa/fs"
)

// Cmd is the build cobra command that packages a wasm-bindgen crate for npm.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Build and package a wasm-bindgen crate for npm",
	Long: `Build a Rust crate to WebAssembly and package the output for npm.

Compiles the crate for wasm32-unknown-unknown, runs wasm-bindgen for the
nodejs, web, and bundler targets, generates an entrypoint per runtime
environment, bundles the forms that need bundling, and rewrites the
package.json exports so every environment resolves to the right artifact.`,
	Example: `  # Build the crate in the current directory
  wrappa build

  # Build with a custom cargo profile
  wrappa build --profile wasm-release

  # Package prebuilt wasm-bindgen output from CI
  wrappa build --wasm-bindgen-tar bindgen.tar.gz

  # Check the finished package
  wrappa build --verify`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("crate-path", ".", "Rust crate directory")
	Cmd.Flags().String("package-json", "./package.json", "package.json to rewrite")
	Cmd.Flags().String("out-dir", "./dist", "Output directory for package contents")
	Cmd.Flags().String("profile", "release", "Cargo build profile")
	Cmd.Flags().String("wasm-bindgen-tar", "", "Prebuilt wasm-bindgen output archive (skips cargo)")
	Cmd.Flags().Bool("verify", false, "Check the finished package after building")

	_ = viper.BindPFlag("crate-path", Cmd.Flags().Lookup("crate-path"))
	_ = viper.BindPFlag("package-json", Cmd.Flags().Lookup("package-json"))
	_ = viper.BindPFlag("out-dir", Cmd.Flags().Lookup("out-dir"))
	_ = viper.BindPFlag("profile", Cmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("wasm-bindgen-tar", Cmd.Flags().Lookup("wasm-bindgen-tar"))
	_ = viper.BindPFlag("verify", Cmd.Flags().Lookup("verify"))
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	cratePath, err := filepath.Abs(viper.GetString("crate-path"))
	if err != nil {
		return fmt.Errorf("invalid crate path: %w", err)
	}
	packageJSON, err := filepath.Abs(viper.GetString("package-json"))
	if err != nil {
		return fmt.Errorf("invalid package.json path: %w", err)
	}
	outDir, err := filepath.Abs(viper.GetString("out-dir"))
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	bindgenTar := viper.GetString("wasm-bindgen-tar")
	if bindgenTar != "" {
		if bindgenTar, err = filepath.Abs(bindgenTar); err != nil {
			return fmt.Errorf("invalid wasm-bindgen archive path: %w", err)
		}
	}

	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "wrappa", Level: level})

	pipeline := build.New(osfs, build.NewExecRunner(), logger)
	return pipeline.Run(cmd.Context(), build.Config{
		CratePath:   cratePath,
		PackageJSON: packageJSON,
		OutDir:      outDir,
		Profile:     viper.GetString("profile"),
		BindgenTar:  bindgenTar,
		Verify:      viper.GetBool("verify"),
	})
}
