// Package packagejson reads npm package.json manifests and resolves the
// module entry points a browser import map should point at.
//
// Only the fields relevant to import maps are decoded: the dependency lists
// and the entry point fields ("exports", "browser", "module", "main").
// "exports" is kept in its raw form because condition objects are matched in
// declaration order.
package packagejson

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/matzehuels/create-importmap/pkg/errors"
)

// FileName is the manifest file name inside every package directory.
const FileName = "package.json"

// Manifest is the subset of package.json used to build import maps.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Main                 string            `json:"main"`
	Module               string            `json:"module"`
	Browser              json.RawMessage   `json:"browser"`
	Exports              json.RawMessage   `json:"exports"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// Parse decodes a package.json document.
func Parse(data []byte) (*Manifest, error) {
	m, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode package.json")
	}
	return m, nil
}

func decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile reads and decodes the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	m, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// DependencyNames returns the sorted, de-duplicated names of all runtime
// dependencies (dependencies, peerDependencies, optionalDependencies) and,
// when includeDev is set, devDependencies.
func (m *Manifest) DependencyNames(includeDev bool) []string {
	seen := make(map[string]struct{})
	add := func(deps map[string]string) {
		for name := range deps {
			seen[name] = struct{}{}
		}
	}
	add(m.Dependencies)
	add(m.PeerDependencies)
	add(m.OptionalDependencies)
	if includeDev {
		add(m.DevDependencies)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DeclaredRange returns the version range declared for dependency name,
// searching every dependency list. The second result is false when the
// manifest does not mention name at all.
func (m *Manifest) DeclaredRange(name string) (string, bool) {
	for _, deps := range []map[string]string{
		m.Dependencies,
		m.PeerDependencies,
		m.OptionalDependencies,
		m.DevDependencies,
	} {
		if r, ok := deps[name]; ok {
			return r, true
		}
	}
	return "", false
}

// IsOptional reports whether name is only an optional or peer dependency,
// in which case a missing installation is not worth a warning.
func (m *Manifest) IsOptional(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return false
	}
	if _, ok := m.DevDependencies[name]; ok {
		return false
	}
	_, optional := m.OptionalDependencies[name]
	_, peer := m.PeerDependencies[name]
	return optional || peer
}

// HasExports reports whether the manifest declares an "exports" field.
func (m *Manifest) HasExports() bool {
	return len(m.Exports) > 0 && string(m.Exports) != "null"
}
