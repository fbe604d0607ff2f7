//go:build js && wasm

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

// Package main provides the WASM entry point for wrappa.
package main

import (
	"syscall/js"

	"bennypowers.dev/wrappa/packagejson"
)

// Version is the wrappa WASM version.
const Version = "0.1.0"

func main() {
	// Create the wrappa namespace object
	wrappa := make(map[string]any)
	wrappa["rewriteManifest"] = js.FuncOf(rewriteManifest)
	wrappa["version"] = Version

	// Export to global scope
	js.Global().Set("wrappa", js.ValueOf(wrappa))

	// Keep the program running
	select {}
}

// rewriteManifest previews the package.json rewrite a build would apply.
// Arguments:
//   - packageJsonStr: string - The package.json contents as a JSON string
//   - options: object (optional) - Rewrite options
//     - dist: string - Output directory relative to the manifest (default "dist")
//     - name: string - npm package name (default: the manifest's name field)
//
// Returns a Promise that resolves to the rewritten manifest JSON string.
func rewriteManifest(this js.Value, args []js.Value) any {
	// Create a new Promise
	handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
		resolve := promiseArgs[0]
		reject := promiseArgs[1]

		go func() {
			result, err := doRewrite(args)
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(result)
		}()

		return nil
	})

	promise := js.Global().Get("Promise").New(handler)
	handler.Release()
	return promise
}

// doRewrite performs the actual manifest rewrite.
func doRewrite(args []js.Value) (string, error) {
	if len(args) < 1 {
		return "", &jsError{message: "rewriteManifest requires at least one argument (package.json string)"}
	}

	doc, err := packagejson.Parse([]byte(args[0].String()))
	if err != nil {
		return "", &jsError{message: "failed to parse package.json: " + err.Error()}
	}

	opts := parseOptions(args)
	if opts.dist == "" {
		opts.dist = "dist"
	}
	if opts.name == "" {
		opts.name = doc.Name()
	}
	if opts.name == "" {
		return "", &jsError{message: "package name required: set options.name or the manifest's name field"}
	}

	packagejson.Rewrite(doc, opts.dist, opts.name)

	out, err := doc.Serialize()
	if err != nil {
		return "", &jsError{message: "failed to serialize manifest: " + err.Error()}
	}
	return string(out), nil
}

// rewriteOptions holds parsed rewrite options.
type rewriteOptions struct {
	dist string
	name string
}

// parseOptions extracts options from the JavaScript arguments.
func parseOptions(args []js.Value) rewriteOptions {
	opts := rewriteOptions{}

	if len(args) < 2 || args[1].IsUndefined() || args[1].IsNull() {
		return opts
	}

	optionsObj := args[1]

	// Output directory
	if distVal := optionsObj.Get("dist"); !distVal.IsUndefined() && !distVal.IsNull() {
		opts.dist = distVal.String()
	}

	// Package name override
	if nameVal := optionsObj.Get("name"); !nameVal.IsUndefined() && !nameVal.IsNull() {
		opts.name = nameVal.String()
	}

	return opts
}

// jsError represents an error to be returned to JavaScript.
type jsError struct {
	message string
}

func (e *jsError) Error() string {
	return e.message
}
