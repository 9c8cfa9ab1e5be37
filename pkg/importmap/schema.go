package importmap

import (
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/create-importmap/pkg/errors"
)

//go:embed importmap.schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Validate checks a raw JSON document against the import map schema.
// Violations are reported as a single INVALID_IMPORTMAP error listing each
// failing field.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidImportMap, err, "parse import map")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.Field()+": "+re.Description())
	}
	return errors.New(errors.ErrCodeInvalidImportMap, "invalid import map: %s", strings.Join(problems, "; "))
}
