package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/generator"
	"github.com/matzehuels/create-importmap/pkg/importmap"
	"github.com/matzehuels/create-importmap/pkg/installer"
	"github.com/matzehuels/create-importmap/pkg/observability"
)

// Runner executes the pipeline. It is safe for concurrent use with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs generate → merge → validate → write.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{OutputPath: opts.OutputPath, JS: opts.JS}

	hooks := observability.Pipeline()

	// Stage 1: Generate
	genStart := time.Now()
	hooks.OnGenerateStart(ctx, opts.BaseDir)
	m, err := r.Generate(ctx, opts, result)
	result.Stats.GenerateTime = time.Since(genStart)
	hooks.OnGenerateComplete(ctx, opts.BaseDir, result.Packages, result.Stats.GenerateTime, err)
	if err != nil {
		return nil, err
	}
	for _, name := range result.Missing {
		hooks.OnPackageMissing(ctx, name)
	}
	result.Imports = len(m.Imports)
	result.Scopes = len(m.Scopes)

	r.Logger.Debug("generated import map",
		"imports", result.Imports,
		"scopes", result.Scopes,
		"packages", result.Packages,
		"duration", result.Stats.GenerateTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Encode and write
	writeStart := time.Now()
	hooks.OnWriteStart(ctx, opts.OutputPath)
	data, err := r.Encode(m, opts)
	if err == nil {
		err = writeFile(opts.OutputPath, data)
	}
	result.Stats.WriteTime = time.Since(writeStart)
	hooks.OnWriteComplete(ctx, opts.OutputPath, len(data), result.Stats.WriteTime, err)
	if err != nil {
		return nil, err
	}
	result.Bytes = len(data)

	r.Logger.Debug("wrote output",
		"path", opts.OutputPath,
		"bytes", result.Bytes,
		"duration", result.Stats.WriteTime)

	return result, nil
}

// Generate builds the import map and merges opts.InputMap over it.
// Package counts are recorded in result when it is non-nil.
func (r *Runner) Generate(ctx context.Context, opts Options, result *Result) (*importmap.ImportMap, error) {
	gen, err := generator.Generate(ctx, generator.Options{
		BaseDir:    opts.BaseDir,
		OutputPath: opts.OutputPath,
		IncludeDev: opts.IncludeDev,
		Conditions: opts.Conditions,
		Logger:     r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if result != nil {
		result.Packages = gen.Packages
		result.Missing = gen.Missing
	}

	m := gen.ImportMap
	if opts.InputMap != "" {
		input, err := importmap.Load(opts.InputMap)
		if err != nil {
			return nil, fmt.Errorf("input map: %w", err)
		}
		m = m.Merge(input)
		r.Logger.Debug("merged input map", "path", opts.InputMap, "entries", input.Len())
	}
	return m, nil
}

// Encode validates m and renders the output document.
func (r *Runner) Encode(m *importmap.ImportMap, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := importmap.Write(&buf, m); err != nil {
		return nil, err
	}
	if err := importmap.Validate(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if !opts.JS {
		return buf.Bytes(), nil
	}

	script, err := installer.Script(m, installer.Options{Minify: opts.Minify})
	if err != nil {
		return nil, fmt.Errorf("installer: %w", err)
	}
	if err := installer.Check(script); err != nil {
		return nil, fmt.Errorf("installer: %w", err)
	}
	return script, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
