package installer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/importmap"
)

func sampleMap() *importmap.ImportMap {
	m := importmap.New()
	m.Imports["commander"] = "./node_modules/commander/esm.mjs"
	m.Imports["lit"] = "https://cdn.jsdelivr.net/npm/lit@3/index.js"
	m.AddScoped("./node_modules/@jsenv/importmap-node-module/", "@babel/traverse", "./node_modules/@babel/traverse/lib/index.js")
	return m
}

func TestScript(t *testing.T) {
	m := sampleMap()
	script, err := Script(m, Options{})
	if err != nil {
		t.Fatalf("Script failed: %v", err)
	}

	literal, err := importmap.Marshal(m, "    ")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(script, literal) {
		t.Errorf("script does not embed the import map literal:\n%s", script)
	}

	for _, want := range []string{
		`new URL(".", document.currentScript.src).href`,
		`url.startsWith(".")`,
		`importMap.type = "importmap"`,
		`document.currentScript.after(importMap)`,
	} {
		if !bytes.Contains(script, []byte(want)) {
			t.Errorf("script missing %q", want)
		}
	}

	if !bytes.HasPrefix(script, []byte("(() => {")) || !bytes.HasSuffix(script, []byte("})()\n")) {
		t.Errorf("script should be a newline-terminated IIFE:\n%s", script)
	}

	if err := Check(script); err != nil {
		t.Errorf("generated script does not parse: %v", err)
	}
}

func TestScriptEscapesClosingTag(t *testing.T) {
	m := importmap.New()
	m.Imports["evil"] = "./</script><script>alert(1)</script>.js"

	script, err := Script(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(script, []byte("</script>")) {
		t.Errorf("script must not contain a literal closing tag:\n%s", script)
	}
	if err := Check(script); err != nil {
		t.Errorf("escaped script does not parse: %v", err)
	}
}

func TestScriptMinify(t *testing.T) {
	m := sampleMap()
	plain, err := Script(m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	minified, err := Script(m, Options{Minify: true})
	if err != nil {
		t.Fatalf("Script(minify) failed: %v", err)
	}

	if len(minified) >= len(plain) {
		t.Errorf("minified script (%d bytes) is not smaller than plain (%d bytes)", len(minified), len(plain))
	}
	for _, want := range []string{
		"./node_modules/commander/esm.mjs",
		"https://cdn.jsdelivr.net/npm/lit@3/index.js",
		"importmap",
		"currentScript",
	} {
		if !strings.Contains(string(minified), want) {
			t.Errorf("minified script lost %q:\n%s", want, minified)
		}
	}
	if err := Check(minified); err != nil {
		t.Errorf("minified script does not parse: %v", err)
	}
}

func TestCheckRejectsBrokenScript(t *testing.T) {
	err := Check([]byte("(() => {"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Check() error = %v, want INVALID_FORMAT", err)
	}
}
