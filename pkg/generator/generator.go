package generator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/importmap"
	"github.com/matzehuels/create-importmap/pkg/packagejson"
)

// Options configures import map generation.
type Options struct {
	BaseDir    string      // directory containing the root package.json (default ".")
	OutputPath string      // file the map is written to; URLs are relative to its directory
	IncludeDev bool        // also map the root devDependencies
	Conditions []string    // export conditions (default packagejson.DefaultConditions)
	Logger     *log.Logger // diagnostics (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.OutputPath == "" {
		opts.OutputPath = "importmap.json"
	}
	if len(opts.Conditions) == 0 {
		opts.Conditions = packagejson.DefaultConditions
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

// Result is the outcome of a generation run.
type Result struct {
	ImportMap *importmap.ImportMap
	Root      *packagejson.Manifest
	Packages  int      // distinct package directories visited
	Missing   []string // dependencies that could not be located, each listed once
}

type pkg struct {
	name     string
	dir      string
	manifest *packagejson.Manifest
}

type generator struct {
	opts    Options
	logger  *log.Logger
	base    string
	outDir  string
	visited map[string]bool
	missing map[string]bool
	queue   []pkg
	result  *Result
}

// Generate builds the import map for the package in opts.BaseDir.
//
// It fails when the base directory or its package.json is missing or
// unreadable, or when ctx is cancelled. Problems with individual
// dependencies are logged and skipped.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.WithDefaults()

	base, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve base directory %s", opts.BaseDir)
	}
	info, err := os.Stat(base)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "base directory %s", opts.BaseDir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "base directory %s", opts.BaseDir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "base %s is not a directory", opts.BaseDir)
	}
	base = realPath(base)

	root, err := packagejson.ParseFile(filepath.Join(base, packagejson.FileName))
	if err != nil {
		return nil, err
	}

	out, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve output path %s", opts.OutputPath)
	}

	g := &generator{
		opts:    opts,
		logger:  opts.Logger,
		base:    base,
		outDir:  realPath(filepath.Dir(out)),
		visited: map[string]bool{base: true},
		missing: map[string]bool{},
		result:  &Result{ImportMap: importmap.New(), Root: root},
	}
	if err := g.run(ctx, root); err != nil {
		return nil, err
	}
	g.result.Packages = len(g.visited) - 1
	return g.result, nil
}

func (g *generator) run(ctx context.Context, root *packagejson.Manifest) error {
	m := g.result.ImportMap

	if root.Name != "" && root.HasExports() {
		for spec, target := range g.mappings(root.Name, g.base, root) {
			m.Imports[spec] = target
		}
	}

	for _, name := range root.DependencyNames(g.opts.IncludeDev) {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, ok := g.locate(name, g.base, root)
		if !ok {
			continue
		}
		g.checkVersion(root, p)
		for spec, target := range g.mappings(name, p.dir, p.manifest) {
			m.Imports[spec] = target
		}
		g.enqueue(p)
	}

	for len(g.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		importer := g.queue[0]
		g.queue = g.queue[1:]

		scope := g.url(importer.dir) + "/"
		for _, name := range importer.manifest.DependencyNames(false) {
			p, ok := g.locate(name, importer.dir, importer.manifest)
			if !ok {
				continue
			}
			g.checkVersion(importer.manifest, p)
			for spec, target := range g.mappings(name, p.dir, p.manifest) {
				if m.Imports[spec] == target {
					continue
				}
				m.AddScoped(scope, spec, target)
			}
			g.enqueue(p)
		}
	}
	return nil
}

// locate finds and loads dependency name as seen from dir.
func (g *generator) locate(name, dir string, importer *packagejson.Manifest) (pkg, bool) {
	if err := errors.ValidateNpmPackageName(name); err != nil {
		g.logger.Warn("skipping dependency", "name", name, "err", errors.UserMessage(err))
		return pkg{}, false
	}

	pkgDir, ok := lookup(dir, name)
	if !ok {
		if importer.IsOptional(name) {
			g.logger.Debug("optional dependency not installed", "name", name, "from", dir)
			return pkg{}, false
		}
		g.logger.Warn("dependency not found in node_modules", "name", name, "from", dir)
		if !g.missing[name] {
			g.missing[name] = true
			g.result.Missing = append(g.result.Missing, name)
		}
		return pkg{}, false
	}
	pkgDir = realPath(pkgDir)

	manifest, err := packagejson.ParseFile(filepath.Join(pkgDir, packagejson.FileName))
	if err != nil {
		g.logger.Warn("cannot read package manifest", "name", name, "err", errors.UserMessage(err))
		return pkg{}, false
	}
	return pkg{name: name, dir: pkgDir, manifest: manifest}, true
}

func (g *generator) enqueue(p pkg) {
	if g.visited[p.dir] {
		return
	}
	g.visited[p.dir] = true
	g.queue = append(g.queue, p)
}

// mappings returns the import map entries exposing package name installed in
// dir: the bare name mapped to its entry file plus one entry per exported
// subpath or directory prefix.
func (g *generator) mappings(name, dir string, manifest *packagejson.Manifest) importmap.Specifiers {
	out := importmap.Specifiers{}

	if entry, ok := manifest.Entry(g.opts.Conditions); ok {
		if file, found := resolveFile(dir, entry, !manifest.HasExports()); found {
			out[name] = g.url(file)
		} else {
			g.logger.Warn("entry file not found", "name", name, "entry", entry)
		}
	}

	for sub, target := range manifest.Subpaths(g.opts.Conditions) {
		if sub == "" || strings.HasSuffix(sub, "/") {
			out[name+"/"+sub] = g.url(filepath.Join(dir, filepath.FromSlash(target))) + "/"
			continue
		}
		if file, found := resolveFile(dir, target, false); found {
			out[name+"/"+sub] = g.url(file)
		} else {
			g.logger.Debug("export target not found", "name", name, "subpath", sub, "target", target)
		}
	}
	return out
}

// url expresses an absolute file system path relative to the output
// directory, always starting with "./" or "../".
func (g *generator) url(path string) string {
	rel, err := filepath.Rel(g.outDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return "."
	case rel == ".." || strings.HasPrefix(rel, "../"):
		return rel
	default:
		return "./" + rel
	}
}
