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

// Package targets declares the build targets wrappa produces and how they
// relate to each other.
//
// This package is the single source of truth for how packages are put
// together. Each Environment defines which wasm-bindgen target it consumes,
// how its entrypoints initialize the wasm module, and which package.json
// export conditions point at it. To understand how a specific export is
// built, start from RootExportMapping and follow the Environment methods.
package targets

// BindgenTarget identifies a wasm-bindgen CLI target.
type BindgenTarget string

const (
	// TargetNodejs is `--target nodejs`: CommonJS output with fs-based wasm loading.
	TargetNodejs BindgenTarget = "nodejs"
	// TargetWeb is `--target web`: ESM output with manual initialization.
	TargetWeb BindgenTarget = "web"
	// TargetBundler is `--target bundler`: ESM output expecting the bundler to handle wasm.
	TargetBundler BindgenTarget = "bundler"
)

// AllTargets returns every wasm-bindgen target that gets built, in build order.
func AllTargets() []BindgenTarget {
	return []BindgenTarget{TargetNodejs, TargetWeb, TargetBundler}
}

// InitStrategy describes how an entrypoint initializes the wasm module.
type InitStrategy int

const (
	// AutoNodejs initializes via the wasm-bindgen nodejs output, which self-initializes.
	AutoNodejs InitStrategy = iota
	// Base64Embedded decodes wasm embedded as base64 and initializes synchronously.
	Base64Embedded
	// SyncWasmImport initializes from a synchronous wasm module import (workerd).
	SyncWasmImport
	// BundlerPassthrough re-exports the bundler target and leaves wasm loading to the bundler.
	BundlerPassthrough
	// Manual performs no initialization; the caller invokes initSync themselves.
	Manual
)

// Environment is a runtime environment wrappa generates entrypoints for.
type Environment string

const (
	// Node covers Node.js, both ESM and CJS.
	Node Environment = "node"
	// Web covers browsers without a bundler, using base64-embedded wasm.
	Web Environment = "web"
	// Bundler covers bundlers like Webpack, Vite, and Rollup.
	Bundler Environment = "bundler"
	// Workerd covers the Cloudflare Workers runtime.
	Workerd Environment = "workerd"
	// Iife covers script tag usage via a self-contained bundle.
	Iife Environment = "iife"
	// Slim is the manual-initialization escape hatch.
	Slim Environment = "slim"
)

// AllEnvironments returns the environments that get their own entrypoints,
// in generation order. Iife is absent: its bundle is produced from Web.
func AllEnvironments() []Environment {
	return []Environment{Node, Web, Bundler, Workerd, Slim}
}

// FileStem returns the base filename for the environment's entrypoints,
// without extension.
func (e Environment) FileStem() string {
	if e == Iife {
		// lives in the iife/ subdirectory
		return "index"
	}
	return string(e)
}

// BindgenTarget returns the wasm-bindgen target this environment's
// entrypoint re-exports from.
func (e Environment) BindgenTarget() BindgenTarget {
	switch e {
	case Node:
		return TargetNodejs
	case Bundler:
		return TargetBundler
	default:
		// Web, Workerd, Iife, and Slim all consume the web target.
		return TargetWeb
	}
}

// InitStrategy returns how this environment initializes the wasm module.
func (e Environment) InitStrategy() InitStrategy {
	switch e {
	case Node:
		return AutoNodejs
	case Bundler:
		return BundlerPassthrough
	case Workerd:
		return SyncWasmImport
	case Slim:
		return Manual
	default:
		// Web and Iife embed the wasm as base64.
		return Base64Embedded
	}
}

// NeedsCJSBundle reports whether this environment's CJS entrypoint has to be
// produced by the bundler. Node requires its wasm-bindgen output directly,
// and Bundler, Workerd, and Iife fall back to other environments for CJS,
// so only Web and Slim need a bundle of their ESM entrypoint.
func (e Environment) NeedsCJSBundle() bool {
	return e == Web || e == Slim
}

// ExportCondition is an export condition key in package.json.
type ExportCondition string

const (
	// ConditionWorkerd matches the Cloudflare Workers runtime.
	ConditionWorkerd ExportCondition = "workerd"
	// ConditionNode matches the Node.js runtime.
	ConditionNode ExportCondition = "node"
	// ConditionBrowser matches browser environments, typically via a bundler.
	ConditionBrowser ExportCondition = "browser"
	// ConditionImport is the ES module fallback.
	ConditionImport ExportCondition = "import"
	// ConditionRequire is the CommonJS fallback.
	ConditionRequire ExportCondition = "require"
)

// ExportMapping ties a package.json export condition to the environments
// that serve it.
type ExportMapping struct {
	// Condition is the condition key in package.json.
	Condition ExportCondition
	// ESM is the environment used for ES module imports.
	ESM Environment
	// CJS is the environment used for CommonJS requires.
	CJS Environment
}

// RootExportMapping defines the root "." export of the generated package.
// Order matters: runtimes match conditions top to bottom, so the specific
// conditions precede the import/require fallbacks.
var RootExportMapping = []ExportMapping{
	{Condition: ConditionWorkerd, ESM: Workerd, CJS: Web},
	{Condition: ConditionNode, ESM: Node, CJS: Node},
	{Condition: ConditionBrowser, ESM: Bundler, CJS: Web},
	{Condition: ConditionImport, ESM: Web, CJS: Web},
	{Condition: ConditionRequire, ESM: Web, CJS: Web},
}
