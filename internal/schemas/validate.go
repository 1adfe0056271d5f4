package schemas

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// BuildJSONSchema generates a JSON Schema document for the requested
// sections: every requested field is present with its declared type, no
// other properties are allowed.
func BuildJSONSchema(sections []types.Section) (string, error) {
	properties := make(map[string]any, len(sections))
	required := make([]string, 0, len(sections))

	for _, section := range sections {
		spec, ok := sectionFields[section]
		if !ok {
			return "", fmt.Errorf("unknown section: %q", section)
		}
		if spec.List {
			properties[spec.Name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		} else {
			properties[spec.Name] = map[string]any{"type": "string"}
		}
		required = append(required, spec.Name)
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(data), nil
}

// ValidateRecord checks a parsed model reply against the schema derived
// from the requested sections. Returns a *ValidationError describing
// every mismatched field, or nil if the record conforms.
func ValidateRecord(sections []types.Section, jsonContent string) error {
	schemaContent, err := BuildJSONSchema(sections)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
