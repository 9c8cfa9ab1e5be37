package generator

import (
	"os"
	"path/filepath"
)

const nodeModules = "node_modules"

// lookup locates package name the way Node's module resolution does: it
// checks "<dir>/node_modules/<name>" for dir and each of its ancestors.
// Directories that are themselves named node_modules are skipped.
func lookup(from, name string) (string, bool) {
	rel := filepath.FromSlash(name)
	dir := from
	for {
		if filepath.Base(dir) != nodeModules {
			candidate := filepath.Join(dir, nodeModules, rel)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// resolveFile returns the absolute path of entry inside dir if it names an
// existing file. With probe set, the legacy extension and directory index
// fallbacks of "main"/"module" fields are tried as well.
func resolveFile(dir, entry string, probe bool) (string, bool) {
	base := filepath.Join(dir, filepath.FromSlash(entry))
	candidates := []string{base}
	if probe {
		candidates = append(candidates,
			base+".js",
			base+".mjs",
			filepath.Join(base, "index.js"),
			filepath.Join(base, "index.mjs"),
		)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, true
		}
	}
	return "", false
}

// realPath resolves symlinks in path. A path that does not exist yet is
// resolved through its closest existing ancestor, so output locations can be
// compared with package locations before the output file is created.
func realPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(realPath(parent), filepath.Base(path))
}
