package generator

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files (slash-separated paths relative to dir).
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// projectTree mirrors a small real-world project: one runtime dependency,
// two dev dependencies, one of which pulls in a transitive package.
func projectTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json": `{
  "name": "create-importmap",
  "version": "1.0.0",
  "dependencies": {"commander": "^14.0.0"},
  "devDependencies": {"typescript": "^5.8.0", "@jsenv/importmap-node-module": "^7.0.0"}
}`,
		"node_modules/commander/package.json": `{
  "name": "commander",
  "version": "14.0.0",
  "main": "./index.js",
  "exports": {
    ".": {"require": "./index.js", "import": "./esm.mjs"},
    "./package.json": "./package.json"
  }
}`,
		"node_modules/commander/index.js": "module.exports = {};",
		"node_modules/commander/esm.mjs":  "export {};",

		"node_modules/typescript/package.json":      `{"name": "typescript", "version": "5.8.2", "main": "./lib/typescript.js", "browser": {"fs": false}}`,
		"node_modules/typescript/lib/typescript.js": "",

		"node_modules/@jsenv/importmap-node-module/package.json": `{
  "name": "@jsenv/importmap-node-module",
  "version": "7.1.0",
  "exports": {".": {"import": "./src/main.js"}},
  "dependencies": {"@babel/traverse": "^7.0.0", "commander": "^14.0.0"}
}`,
		"node_modules/@jsenv/importmap-node-module/src/main.js": "",

		"node_modules/@babel/traverse/package.json": `{"name": "@babel/traverse", "version": "7.26.0", "main": "./lib/index.js"}`,
		"node_modules/@babel/traverse/lib/index.js":  "",
	})
	return dir
}
