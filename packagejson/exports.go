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
package packagejson

import (
	"fmt"

	"github.com/iancoleman/orderedmap"

	"bennypowers.dev/wrappa/fs"
	"bennypowers.dev/wrappa/targets"
)

// Update rewrites the manifest at path with the fields and exports graph
// for a generated package. dist is the output directory relative to the
// manifest, slash-separated.
func Update(fsys fs.FileSystem, path string, dist string, packageName string) error {
	doc, err := ParseFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Rewrite(doc, dist, packageName)

	data, err := doc.Serialize()
	if err != nil {
		return err
	}
	return fsys.WriteFile(path, data, 0644)
}

// Rewrite sets the fields and exports graph for a generated package on a
// parsed manifest. Author-specified keys keep their positions; only the
// generated fields change.
func Rewrite(doc *Document, dist string, packageName string) {
	doc.Set("type", "module")
	doc.Set("main", distPath(dist, targets.CJSEntrypoint(targets.Node)))
	doc.Set("module", distPath(dist, targets.ESMEntrypoint(targets.Bundler)))
	doc.Set("types", distPath(dist, targets.TypeDeclarations()))
	doc.AddFileEntry(dist)
	doc.Set("exports", ExportsGraph(dist, packageName))
}

// ExportsGraph builds the conditional exports for a generated package from
// the declarative mapping in the targets package. Condition order inside
// the root export follows targets.RootExportMapping, with "types" first so
// TypeScript resolves declarations before runtime code.
func ExportsGraph(dist string, packageName string) *orderedmap.OrderedMap {
	root := orderedmap.New()
	root.Set("types", distPath(dist, targets.TypeDeclarations()))

	for _, mapping := range targets.RootExportMapping {
		esmPath := distPath(dist, targets.ESMEntrypoint(mapping.ESM))
		cjsPath := distPath(dist, targets.CJSEntrypoint(mapping.CJS))

		switch mapping.Condition {
		case targets.ConditionImport:
			root.Set("import", esmPath)
		case targets.ConditionRequire:
			root.Set("require", cjsPath)
		default:
			condition := orderedmap.New()
			condition.Set("import", esmPath)
			condition.Set("require", cjsPath)
			root.Set(string(mapping.Condition), condition)
		}
	}

	slim := orderedmap.New()
	slim.Set("types", distPath(dist, targets.TypeDeclarations()))
	slim.Set("import", distPath(dist, targets.ESMEntrypoint(targets.Slim)))
	slim.Set("require", distPath(dist, targets.CJSEntrypoint(targets.Slim)))

	wasmBase64 := orderedmap.New()
	wasmBase64.Set("import", distPath(dist, targets.WasmBase64ESM()))
	wasmBase64.Set("require", distPath(dist, targets.WasmBase64CJS()))

	exports := orderedmap.New()
	exports.Set(".", root)
	exports.Set("./slim", slim)
	exports.Set("./wasm", distPath(dist, targets.StandaloneWasm(packageName)))
	exports.Set("./wasm-base64", wasmBase64)
	exports.Set("./iife", distPath(dist, targets.IifeBundle()))
	return exports
}

// distPath prefixes a dist-relative path for use in package.json fields.
func distPath(dist, rel string) string {
	return "./" + dist + "/" + rel
}
