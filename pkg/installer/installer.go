// Package installer turns an import map into a self-installing script.
//
// The generated script embeds the map as a JSON literal. When a page loads it
// through a <script src="..."> tag, it anchors every relative entry to its
// own URL (the same rule as importmap.ImportMap.Rebase) and inserts a
// <script type="importmap"> element right after itself:
//
//	<script src="https://cdn.example.com/app/importmap.js"></script>
//	<!-- inserted: -->
//	<script type="importmap">{"imports":{"lit":"https://cdn.example.com/app/./node_modules/lit/index.js"}}</script>
//
// The script must be loaded as a classic, non-deferred script, since
// document.currentScript is only set while such a script executes.
package installer

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/importmap"
)

//go:embed installer.js.tmpl
var scriptSource string

var scriptTemplate = template.Must(template.New("installer").Parse(scriptSource))

// jsonIndent is the indentation of the embedded import map literal.
const jsonIndent = "    "

// Options configures script generation.
type Options struct {
	Minify bool // minify the script with esbuild
}

// Script renders the installer script for m.
func Script(m *importmap.ImportMap, opts Options) ([]byte, error) {
	literal, err := importmap.Marshal(m, jsonIndent)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := scriptTemplate.Execute(&buf, struct{ ImportMap string }{string(literal)}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render installer script")
	}

	if !opts.Minify {
		return buf.Bytes(), nil
	}
	return minify(buf.Bytes())
}

func minify(script []byte) ([]byte, error) {
	result := api.Transform(string(script), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return nil, messageError("minify installer script", result.Errors)
	}
	return result.Code, nil
}

// Check parses script with esbuild and reports the first syntax error.
func Check(script []byte) error {
	result := api.Transform(string(script), api.TransformOptions{Loader: api.LoaderJS})
	if len(result.Errors) > 0 {
		return messageError("invalid installer script", result.Errors)
	}
	return nil
}

func messageError(what string, msgs []api.Message) error {
	msg := msgs[0]
	if msg.Location != nil {
		return errors.New(errors.ErrCodeInvalidFormat, "%s: %d:%d: %s", what, msg.Location.Line, msg.Location.Column, msg.Text)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "%s: %s", what, msg.Text)
}
