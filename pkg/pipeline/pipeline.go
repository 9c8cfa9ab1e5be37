// Package pipeline runs the create-importmap pipeline: generate the import map
// from node_modules, merge an optional hand-written map, then persist it as
// JSON or as a self-installing script.
//
// # Stages
//
//  1. Generate: walk the dependency tree of the base package.json
//  2. Merge: overlay the entries of Options.InputMap, if set
//  3. Validate: check the merged document against the import map schema
//  4. Write: encode as JSON, or render the installer script (optionally
//     minified) and syntax-check it before writing
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    BaseDir:    ".",
//	    OutputPath: "public/importmap.js",
//	    JS:         true,
//	})
//
// A Runner holds no per-run state; stages run sequentially.
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/packagejson"
)

// Default output file names.
const (
	DefaultJSONOutput = "importmap.json"
	DefaultJSOutput   = "importmap.js"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	BaseDir    string   // directory containing package.json
	OutputPath string   // destination file, relative to BaseDir unless absolute; derived from JS when empty
	IncludeDev bool     // map devDependencies too
	JS         bool     // write the installer script instead of JSON
	Minify     bool     // minify the installer script
	InputMap   string   // import map merged over the generated one
	Conditions []string // package exports conditions
}

// ValidateAndSetDefaults fills in defaults and checks the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.BaseDir == "" {
		o.BaseDir = "."
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultJSONOutput
		if o.JS {
			o.OutputPath = DefaultJSOutput
		}
	}
	if err := errors.ValidateOutputPath(o.OutputPath); err != nil {
		return err
	}
	if !filepath.IsAbs(o.OutputPath) {
		o.OutputPath = filepath.Join(o.BaseDir, o.OutputPath)
	}
	if len(o.Conditions) == 0 {
		o.Conditions = packagejson.DefaultConditions
	}
	if o.Minify && !o.JS {
		return errors.New(errors.ErrCodeInvalidInput, "--minify requires --js")
	}
	return nil
}

// Result contains the outcome of a pipeline run.
type Result struct {
	OutputPath string   // file that was written
	JS         bool     // whether the output is an installer script
	Bytes      int      // size of the written file
	Imports    int      // top-level entries
	Scopes     int      // scope prefixes
	Packages   int      // package directories visited
	Missing    []string // dependencies not found in node_modules
	Stats      Stats
}

// Stats captures stage durations.
type Stats struct {
	GenerateTime time.Duration
	WriteTime    time.Duration
}

// Total returns the combined duration of all stages.
func (s Stats) Total() time.Duration {
	return s.GenerateTime + s.WriteTime
}
