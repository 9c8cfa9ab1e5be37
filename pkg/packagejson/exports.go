package packagejson

import (
	"encoding/json"
	"path"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultConditions is the export condition priority used for browsers.
var DefaultConditions = []string{"browser", "import", "default"}

// indexFile is the implicit entry of packages without any entry field.
const indexFile = "index.js"

// Entry resolves the main entry point of the package, relative to the
// package directory and without a leading "./" (e.g. "lib/index.js").
//
// Resolution order:
//   - "exports" (the "." subpath), matching conditions in declaration order
//   - "browser" when it is a string and "browser" is an active condition
//   - "module" when "import" is an active condition
//   - "main"
//   - "index.js"
//
// A package with "exports" but no "." export has no main entry and Entry
// reports false.
func (m *Manifest) Entry(conditions []string) (string, bool) {
	active := conditionSet(conditions)

	if m.HasExports() {
		root, ok := rootExport(m.Exports)
		if !ok {
			return "", false
		}
		target, ok := resolveTarget(root, active)
		if !ok {
			return "", false
		}
		return cleanTarget(target), true
	}

	if _, ok := active["browser"]; ok {
		var browser string
		if json.Unmarshal(m.Browser, &browser) == nil && browser != "" {
			return cleanTarget(browser), true
		}
	}
	if _, ok := active["import"]; ok && m.Module != "" {
		return cleanTarget(m.Module), true
	}
	if m.Main != "" {
		return cleanTarget(m.Main), true
	}
	return indexFile, true
}

// Subpaths returns the additional specifiers a package exports, keyed by the
// subpath relative to the package name ("feature" for "./feature") and mapped
// to the target relative to the package directory.
//
// Directory patterns ("./*" -> "./src/*", "./utils/*" -> "./lib/utils/*")
// are returned as trailing-slash prefixes ("" -> "src/", "utils/" ->
// "lib/utils/"). Patterns that cannot be expressed as an import map prefix
// and null (blocked) targets are skipped.
//
// Packages without "exports" return a single "" -> "" prefix entry exposing
// the whole package directory.
func (m *Manifest) Subpaths(conditions []string) map[string]string {
	if !m.HasExports() {
		return map[string]string{"": ""}
	}

	out := make(map[string]string)
	subpaths, ok := subpathObject(m.Exports)
	if !ok {
		return out
	}

	active := conditionSet(conditions)
	for pair := subpaths.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if key == "." || !strings.HasPrefix(key, "./") {
			continue
		}
		target, ok := resolveTarget(pair.Value, active)
		if !ok {
			continue
		}

		sub := strings.TrimPrefix(key, "./")
		if strings.Contains(sub, "*") {
			prefix, isDir := dirPattern(sub)
			targetPrefix, targetIsDir := dirPattern(strings.TrimPrefix(target, "./"))
			if !isDir || !targetIsDir {
				continue
			}
			out[prefix] = targetPrefix
			continue
		}
		out[sub] = cleanTarget(target)
	}
	return out
}

// dirPattern reports whether p is of the form "<dir>/*" (or just "*") and
// returns "<dir>/" (or "").
func dirPattern(p string) (string, bool) {
	if p == "*" {
		return "", true
	}
	if strings.HasSuffix(p, "/*") && strings.Count(p, "*") == 1 {
		return strings.TrimSuffix(p, "*"), true
	}
	return "", false
}

type exportsObject = orderedmap.OrderedMap[string, json.RawMessage]

// decodeObject decodes raw as an object preserving key order.
func decodeObject(raw json.RawMessage) (*exportsObject, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	obj := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, obj); err != nil {
		return nil, false
	}
	return obj, true
}

// isSubpathObject reports whether the object keys are subpaths (".", "./x")
// rather than conditions.
func isSubpathObject(obj *exportsObject) bool {
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if strings.HasPrefix(pair.Key, ".") {
			return true
		}
	}
	return false
}

// subpathObject returns exports as a subpath object, if it is one.
func subpathObject(exports json.RawMessage) (*exportsObject, bool) {
	obj, ok := decodeObject(exports)
	if !ok || !isSubpathObject(obj) {
		return nil, false
	}
	return obj, true
}

// rootExport returns the value exported for ".". A string, array or
// condition object is the root export itself.
func rootExport(exports json.RawMessage) (json.RawMessage, bool) {
	obj, ok := decodeObject(exports)
	if !ok || !isSubpathObject(obj) {
		return exports, true
	}
	return obj.Get(".")
}

// resolveTarget picks the target path of an export value: strings are
// returned as is, arrays yield their first resolvable element and condition
// objects their first active condition in declaration order. null and
// unmatched conditions resolve to nothing.
func resolveTarget(raw json.RawMessage, active map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "" || trimmed == "null":
		return "", false
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case strings.HasPrefix(trimmed, "["):
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", false
		}
		for _, item := range items {
			if target, ok := resolveTarget(item, active); ok {
				return target, true
			}
		}
		return "", false
	case strings.HasPrefix(trimmed, "{"):
		obj, ok := decodeObject(raw)
		if !ok {
			return "", false
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := active[pair.Key]; !ok && pair.Key != "default" {
				continue
			}
			if target, ok := resolveTarget(pair.Value, active); ok {
				return target, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func conditionSet(conditions []string) map[string]struct{} {
	if len(conditions) == 0 {
		conditions = DefaultConditions
	}
	set := make(map[string]struct{}, len(conditions))
	for _, c := range conditions {
		set[c] = struct{}{}
	}
	return set
}

// cleanTarget normalizes an entry path: "./lib/../index.js" -> "index.js".
func cleanTarget(target string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(target, "./")), "/")
}
