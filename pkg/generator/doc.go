// Package generator builds an import map from an installed node_modules tree.
//
// # Overview
//
// [Generate] reads the package.json in the base directory and maps each
// direct dependency (plus devDependencies on request) to its entry file:
//
//	"commander":  "./node_modules/commander/esm.mjs"
//	"commander/": "./node_modules/commander/"
//
// Packages are located the way Node does it: "<dir>/node_modules/<name>",
// walking up parent directories until one exists.
//
// # Scopes
//
// Transitive dependencies are resolved from the directory of the package
// that requires them. Their mappings go into a scope keyed by that package
// directory, unless top-level imports already contain the identical mapping:
//
//	"scopes": {
//	  "./node_modules/a/": {"b": "./node_modules/a/node_modules/b/index.js"}
//	}
//
// # Paths
//
// All URLs are relative to the directory of the output file, so the same
// tree yields "./node_modules/..." for "importmap.json" and
// "../../node_modules/..." for "dist/maps/importmap.json".
//
// # Diagnostics
//
// Missing packages, unreadable manifests, missing entry files and installed
// versions outside the declared semver range are logged as warnings and
// never abort generation.
package generator
