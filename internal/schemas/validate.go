// Package schemas provides JSON Schema validation for persisted manifests
// and queue snapshots before they are trusted by a review session.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ManifestSchema is the repo-relative path of the manifest schema.
const ManifestSchema = "schemas/manifest.schema.json"

// ResolveSchemaPath attempts to find a schema file by trying multiple common
// path resolutions: relative to the working directory, then one and two
// levels up. Useful when commands run from different directory contexts
// (e.g. tests). Returns empty string if none found.
func ResolveSchemaPath(relativePath string) string {
	candidates := []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath
			}
		}
	}

	return ""
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
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

// ValidateFile validates a JSON document file against a schema file.
func ValidateFile(schemaPath, documentPath string) error {
	resolved := ResolveSchemaPath(schemaPath)
	if resolved == "" {
		return &SchemaLoadError{Path: schemaPath, Message: "schema file not found"}
	}

	absDoc, err := filepath.Abs(documentPath)
	if err != nil {
		return &SchemaLoadError{Path: documentPath, Message: "cannot resolve document path", Cause: err}
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + resolved)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + absDoc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Path: resolved, Message: "validation could not run", Cause: err}
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}

// ValidateBytes validates in-memory JSON against a schema file.
func ValidateBytes(schemaPath string, document []byte) error {
	resolved := ResolveSchemaPath(schemaPath)
	if resolved == "" {
		return &SchemaLoadError{Path: schemaPath, Message: "schema file not found"}
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + resolved)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{Path: resolved, Message: "validation could not run", Cause: err}
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return verr
}
