package scan

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// ErrSchemaViolation is wrapped by strict-mode envelope failures.
var ErrSchemaViolation = errors.New("document violates envelope schema")

// Validator checks document envelopes against the embedded schemas.
type Validator struct {
	schemas map[Kind]*gojsonschema.Schema
}

// NewValidator compiles the envelope schema of every document kind.
func NewValidator() (*Validator, error) {
	schemas := make(map[Kind]*gojsonschema.Schema, len(kinds))

	for _, kind := range kinds {
		raw, err := schemaFS.ReadFile("schemas/" + string(kind) + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("read %s schema: %w", kind, err)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}

		schemas[kind] = schema
	}

	return &Validator{schemas: schemas}, nil
}

// Validate checks data against the envelope schema of kind. Violations are
// reported as one error wrapping ErrSchemaViolation.
func (v *Validator) Validate(kind Kind, data []byte) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("%w: no schema for %s", ErrSchemaViolation, kind)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s: %w", kind, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))

	for _, resultErr := range result.Errors() {
		problems = append(problems, resultErr.Field()+": "+resultErr.Description())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
