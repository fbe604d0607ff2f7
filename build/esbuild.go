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
	"errors"
	"fmt"
)

// ErrEsbuildNotFound reports that no usable esbuild was found on PATH or in
// nearby node_modules.
var ErrEsbuildNotFound = errors.New(
	"esbuild not found; install it with `npm install -g esbuild` or `npm install --save-dev esbuild`")

// esbuildCandidates are probed in order. Relative entries resolve against
// the working directory, so a project-local install wins over nothing.
var esbuildCandidates = []string{
	"esbuild",
	"./node_modules/.bin/esbuild",
	"../node_modules/.bin/esbuild",
}

// FindEsbuild locates a working esbuild by probing each candidate with
// --version.
func FindEsbuild(ctx context.Context, runner Runner) (string, error) {
	for _, candidate := range esbuildCandidates {
		if _, err := runner.Output(ctx, candidate, "--version"); err == nil {
			return candidate, nil
		}
	}
	return "", ErrEsbuildNotFound
}

// esbuildArgs builds the argument list for one bundle invocation.
func esbuildArgs(input, output, format, globalName string) []string {
	args := []string{
		input,
		"--bundle",
		"--format=" + format,
		"--outfile=" + output,
		// the import.meta branch in the web glue never executes in bundles
		"--log-override:empty-import-meta=silent",
	}
	if format == "cjs" {
		args = append(args, "--platform=node")
	}
	if globalName != "" {
		args = append(args, "--global-name="+globalName)
	}
	return args
}

// runEsbuild bundles input into output with the given format. globalName is
// only set for iife bundles.
func (p *Pipeline) runEsbuild(ctx context.Context, esbuild, input, output, format, globalName string) error {
	if err := p.runner.Run(ctx, esbuild, esbuildArgs(input, output, format, globalName)...); err != nil {
		return fmt.Errorf("esbuild %s bundle failed: %w", format, err)
	}
	return nil
}
