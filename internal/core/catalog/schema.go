package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "catalog does not match schema: " + strings.Join(e.Problems, "; ")
}

// Schema returns the JSON Schema catalog documents are checked against.
func Schema() string {
	return schemaJSON
}

func validateSchema(doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &SchemaError{Problems: problems}
}
