package importmap

import (
	"fmt"
	"net/url"

	"github.com/matzehuels/create-importmap/pkg/errors"
)

// AnchorBase returns the directory URL of scriptURL, i.e. "." resolved
// against it, always ending in "/". scriptURL must be absolute.
func AnchorBase(scriptURL string) (string, error) {
	u, err := url.Parse(scriptURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse script URL %q", scriptURL)
	}
	if !u.IsAbs() {
		return "", errors.New(errors.ErrCodeInvalidInput, "script URL must be absolute: %q", scriptURL)
	}
	return u.ResolveReference(&url.URL{Path: "."}).String(), nil
}

// Prefix anchors s to base when s is relative and returns it unchanged
// otherwise. The two are concatenated, not resolved.
func Prefix(s, base string) string {
	if IsRelative(s) {
		return base + s
	}
	return s
}

// Rebase returns a new map in which every relative key and value, at any
// depth, is prefixed with base. m is not modified.
func (m *ImportMap) Rebase(base string) *ImportMap {
	out := &ImportMap{Imports: rebaseSpecifiers(m.Imports, base)}
	if len(m.Scopes) > 0 {
		out.Scopes = make(map[string]Specifiers, len(m.Scopes))
		for prefix, s := range m.Scopes {
			out.Scopes[Prefix(prefix, base)] = rebaseSpecifiers(s, base)
		}
	}
	if len(m.Integrity) > 0 {
		out.Integrity = make(map[string]string, len(m.Integrity))
		for k, v := range m.Integrity {
			out.Integrity[Prefix(k, base)] = v
		}
	}
	return out
}

func rebaseSpecifiers(s Specifiers, base string) Specifiers {
	out := make(Specifiers, len(s))
	for k, v := range s {
		out[Prefix(k, base)] = Prefix(v, base)
	}
	return out
}

// RebaseValue applies the rebasing rule to an arbitrary decoded JSON value.
// Objects are rebuilt with prefixed keys and recursively rebased values,
// strings are prefixed, and anything else is returned as is.
func RebaseValue(v any, base string) any {
	switch t := v.(type) {
	case string:
		return Prefix(t, base)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[Prefix(k, base)] = RebaseValue(child, base)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = RebaseValue(child, base)
		}
		return out
	default:
		return v
	}
}

// RebaseFromScript is Rebase anchored at the directory of scriptURL.
func (m *ImportMap) RebaseFromScript(scriptURL string) (*ImportMap, error) {
	base, err := AnchorBase(scriptURL)
	if err != nil {
		return nil, fmt.Errorf("rebase: %w", err)
	}
	return m.Rebase(base), nil
}
