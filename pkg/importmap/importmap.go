package importmap

import (
	"maps"
	"strings"
)

// Specifiers maps module specifiers (or URL prefixes ending in "/") to URLs.
type Specifiers map[string]string

// ImportMap is a browser import map document.
type ImportMap struct {
	Imports   Specifiers            `json:"imports"`
	Scopes    map[string]Specifiers `json:"scopes,omitempty"`
	Integrity map[string]string     `json:"integrity,omitempty"`
}

// New returns an empty import map with an initialized imports section.
func New() *ImportMap {
	return &ImportMap{Imports: Specifiers{}}
}

// IsRelative reports whether s is a path-relative reference. Only a leading
// "." counts; "/abs" and "https://..." are treated as absolute.
func IsRelative(s string) bool {
	return strings.HasPrefix(s, ".")
}

// AddScoped records specifier -> target under the given scope prefix.
func (m *ImportMap) AddScoped(scope, specifier, target string) {
	if m.Scopes == nil {
		m.Scopes = make(map[string]Specifiers)
	}
	s, ok := m.Scopes[scope]
	if !ok {
		s = Specifiers{}
		m.Scopes[scope] = s
	}
	s[specifier] = target
}

// Len returns the number of mappings, counting scoped entries.
func (m *ImportMap) Len() int {
	n := len(m.Imports)
	for _, s := range m.Scopes {
		n += len(s)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *ImportMap) Clone() *ImportMap {
	out := &ImportMap{Imports: maps.Clone(m.Imports)}
	if out.Imports == nil {
		out.Imports = Specifiers{}
	}
	if len(m.Scopes) > 0 {
		out.Scopes = make(map[string]Specifiers, len(m.Scopes))
		for prefix, s := range m.Scopes {
			out.Scopes[prefix] = maps.Clone(s)
		}
	}
	if len(m.Integrity) > 0 {
		out.Integrity = maps.Clone(m.Integrity)
	}
	return out
}

// Merge returns a copy of m with every entry of override applied on top.
// Entries of override win; scopes are merged prefix by prefix.
func (m *ImportMap) Merge(override *ImportMap) *ImportMap {
	out := m.Clone()
	if override == nil {
		return out
	}
	maps.Copy(out.Imports, override.Imports)
	for prefix, s := range override.Scopes {
		for spec, target := range s {
			out.AddScoped(prefix, spec, target)
		}
	}
	if len(override.Integrity) > 0 {
		if out.Integrity == nil {
			out.Integrity = make(map[string]string, len(override.Integrity))
		}
		maps.Copy(out.Integrity, override.Integrity)
	}
	return out
}
