package importmap

import (
	"reflect"
	"testing"

	"github.com/matzehuels/create-importmap/pkg/errors"
)

func TestAnchorBase(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"https://host/root/importmap.js", "https://host/root/"},
		{"https://localhost/root/lib/test/importmap.js", "https://localhost/root/lib/test/"},
		{"https://host/importmap.js?v=3#frag", "https://host/"},
		{"https://host/dir/", "https://host/dir/"},
		{"http://cdn.example.com:8080/a/b/c.js", "http://cdn.example.com:8080/a/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			got, err := AnchorBase(tt.script)
			if err != nil {
				t.Fatalf("AnchorBase(%q) error: %v", tt.script, err)
			}
			if got != tt.want {
				t.Errorf("AnchorBase(%q) = %q, want %q", tt.script, got, tt.want)
			}
		})
	}
}

func TestAnchorBaseRejectsRelative(t *testing.T) {
	for _, script := range []string{"importmap.js", "/root/importmap.js", "://bad"} {
		if _, err := AnchorBase(script); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("AnchorBase(%q) error = %v, want INVALID_INPUT", script, err)
		}
	}
}

func TestPrefix(t *testing.T) {
	const base = "https://host/a/b/"
	tests := []struct {
		in, want string
	}{
		{"./x", "https://host/a/b/./x"},
		{"../x", "https://host/a/b/../x"},
		{".", "https://host/a/b/."},
		{"/x", "/x"},
		{"https://cdn/x.js", "https://cdn/x.js"},
		{"commander", "commander"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Prefix(tt.in, base); got != tt.want {
			t.Errorf("Prefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRebaseAbsoluteIsIdentity(t *testing.T) {
	m := &ImportMap{
		Imports: Specifiers{
			"lit":  "https://cdn.jsdelivr.net/npm/lit@3/index.js",
			"app/": "/static/app/",
		},
		Scopes: map[string]Specifiers{
			"/static/vendor/": {"lit": "https://esm.sh/lit@2"},
		},
	}

	got := m.Rebase("https://elsewhere/x/")
	if !reflect.DeepEqual(got, m) {
		t.Errorf("Rebase changed an absolute-only map:\n got %#v\nwant %#v", got, m)
	}
}

func TestRebaseCommanderExample(t *testing.T) {
	m := &ImportMap{Imports: Specifiers{"commander": "./node_modules/commander/esm.mjs"}}

	got, err := m.RebaseFromScript("https://host/root/importmap.js")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://host/root/./node_modules/commander/esm.mjs"
	if got.Imports["commander"] != want {
		t.Errorf("imports[commander] = %q, want %q", got.Imports["commander"], want)
	}
}

func TestRebaseScopes(t *testing.T) {
	m := &ImportMap{
		Imports: Specifiers{
			"commander": "../../../node_modules/commander/esm.mjs",
		},
		Scopes: map[string]Specifiers{
			"../../../node_modules/@jsenv/importmap-node-module/": {
				"@babel/traverse/": "../../../node_modules/@babel/traverse/",
				"@babel/traverse":  "../../../node_modules/@babel/traverse/lib/index.js",
			},
			"https://cdn/": {"x": "./x.js"},
		},
	}

	got := m.Rebase("https://localhost/root/lib/test/")

	const p = "https://localhost/root/lib/test/../../../node_modules/"
	want := &ImportMap{
		Imports: Specifiers{"commander": p + "commander/esm.mjs"},
		Scopes: map[string]Specifiers{
			p + "@jsenv/importmap-node-module/": {
				"@babel/traverse/": p + "@babel/traverse/",
				"@babel/traverse":  p + "@babel/traverse/lib/index.js",
			},
			"https://cdn/": {"x": "https://localhost/root/lib/test/./x.js"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rebase:\n got %#v\nwant %#v", got, want)
	}

	// Input untouched.
	if _, ok := m.Scopes["../../../node_modules/@jsenv/importmap-node-module/"]; !ok {
		t.Error("Rebase mutated its receiver")
	}
}

func TestRebaseRelativeSpecifierKeys(t *testing.T) {
	m := &ImportMap{Imports: Specifiers{"./local.js": "./dist/local.js"}}
	got := m.Rebase("https://h/")

	if len(got.Imports) != 1 {
		t.Fatalf("expected only the prefixed key, got %v", got.Imports)
	}
	if got.Imports["https://h/./local.js"] != "https://h/./dist/local.js" {
		t.Errorf("unexpected imports: %v", got.Imports)
	}
}

func TestRebaseValueMatchesRebase(t *testing.T) {
	const base = "https://host/root/"
	m := &ImportMap{
		Imports: Specifiers{"a": "./a.js", "b": "https://b/b.js"},
		Scopes:  map[string]Specifiers{"./node_modules/a/": {"c": "./node_modules/a/node_modules/c/c.js"}},
	}

	generic := map[string]any{
		"imports": map[string]any{"a": "./a.js", "b": "https://b/b.js"},
		"scopes": map[string]any{
			"./node_modules/a/": map[string]any{"c": "./node_modules/a/node_modules/c/c.js"},
		},
	}

	typed := m.Rebase(base)
	got := RebaseValue(generic, base).(map[string]any)

	imports := got["imports"].(map[string]any)
	for k, v := range typed.Imports {
		if imports[k] != v {
			t.Errorf("imports[%q] = %v, want %q", k, imports[k], v)
		}
	}
	scopes := got["scopes"].(map[string]any)
	for prefix, s := range typed.Scopes {
		gs, ok := scopes[prefix].(map[string]any)
		if !ok {
			t.Fatalf("scope %q missing from generic result", prefix)
		}
		for k, v := range s {
			if gs[k] != v {
				t.Errorf("scopes[%q][%q] = %v, want %q", prefix, k, gs[k], v)
			}
		}
	}
}

func TestRebaseValueScalars(t *testing.T) {
	for _, v := range []any{nil, true, 3.5} {
		if got := RebaseValue(v, "https://h/"); got != v {
			t.Errorf("RebaseValue(%v) = %v", v, got)
		}
	}
}
