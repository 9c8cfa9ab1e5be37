package importmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/create-importmap/pkg/errors"
)

// Read decodes and validates an import map from r.
//
// The raw document is checked with [Validate] first, so a structurally wrong
// map (e.g. a number where a URL is expected) is reported with the offending
// field instead of a generic decode error. Read does not close r.
func Read(r io.Reader) (*ImportMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var m ImportMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImportMap, err, "decode import map")
	}
	if m.Imports == nil {
		m.Imports = Specifiers{}
	}
	return &m, nil
}

// Load reads the import map file at path.
func Load(path string) (*ImportMap, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal encodes m as indented JSON without a trailing newline.
// HTML-significant characters stay escaped, which keeps the output safe to
// embed inside a <script> element.
func Marshal(m *ImportMap, indent string) ([]byte, error) {
	data, err := json.MarshalIndent(normalized(m), "", indent)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode import map")
	}
	return data, nil
}

// Write encodes m as two-space indented JSON followed by a newline.
func Write(w io.Writer, m *ImportMap) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized(m)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode import map")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// normalized guarantees "imports" is encoded as an object, never null.
func normalized(m *ImportMap) *ImportMap {
	if m.Imports != nil {
		return m
	}
	c := *m
	c.Imports = Specifiers{}
	return &c
}
