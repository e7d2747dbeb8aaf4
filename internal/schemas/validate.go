// Package schemas provides JSON Schema validation for generation outputs and
// per-tool resource schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed generation_result.schema.json
var generationResultSchema string

var (
	contractOnce   sync.Once
	contractSchema *gojsonschema.Schema
	contractErr    error
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Type    string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Paths returns the sorted, de-duplicated field paths of the errors.
func (ve *ValidationError) Paths() []string {
	seen := make(map[string]bool, len(ve.Errors))
	out := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			out = append(out, e.Field)
		}
	}
	sort.Strings(out)
	return out
}

// GenerationResultSchema returns the embedded contract schema source.
func GenerationResultSchema() string {
	return generationResultSchema
}

func compiledContract() (*gojsonschema.Schema, error) {
	contractOnce.Do(func() {
		contractSchema, contractErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(generationResultSchema))
		if contractErr != nil {
			contractErr = &SchemaLoadError{Path: "generation_result.schema.json", Message: "invalid embedded schema", Cause: contractErr}
		}
	})
	return contractSchema, contractErr
}

// ValidateGenerationResult checks a decoded document (typically a
// map[string]any) against the output contract.
func ValidateGenerationResult(doc any) error {
	schema, err := compiledContract()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaLoadError{Path: "(document)", Message: "document could not be loaded", Cause: err}
	}
	return toValidationError(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   fieldPath(desc),
			Type:    desc.Type(),
			Message: desc.Description(),
		})
	}
	return validationErr
}

// fieldPath names the offending field. Required errors are reported on the
// parent object, so the missing property is appended.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "" || field == "(root)" {
		field = ""
	}
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			if field != prop && !strings.HasSuffix(field, "."+prop) {
				if field == "" {
					field = prop
				} else {
					field = field + "." + prop
				}
			}
		}
	}
	if field == "" {
		return "(root)"
	}
	return field
}
