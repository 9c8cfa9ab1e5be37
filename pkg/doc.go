// Package pkg provides the libraries behind create-importmap.
//
// # Overview
//
// create-importmap turns the dependencies declared in a package.json into a
// browser import map. The pkg directory is organized as follows:
//
//  1. [packagejson] - package manifest model and "exports" resolution
//  2. [generator] - node_modules walk producing imports and scopes
//  3. [importmap] - import map document, schema validation and URL rebasing
//  4. [installer] - self-installing script output
//  5. [pipeline] - orchestration (generate → merge → write)
//  6. [config] - flag, environment and config file settings
//
// # Data flow
//
//	package.json + node_modules
//	         ↓
//	    [generator] package (Node lookup, exports conditions, scopes)
//	         ↓
//	    [importmap] package (merge, validate)
//	         ↓
//	    importmap.json, or [installer] script
//
// # Quick Start
//
//	res, err := generator.Generate(ctx, generator.Options{BaseDir: "."})
//	if err != nil {
//	    return err
//	}
//	return importmap.Write(os.Stdout, res.ImportMap)
package pkg
