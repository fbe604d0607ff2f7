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
	"os"
	"os/exec"
)

// Runner executes the external tools the pipeline depends on: cargo,
// wasm-bindgen, and esbuild. Tests substitute a recording implementation.
type Runner interface {
	// Run executes a command, streaming its output through to the user.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and captures its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
