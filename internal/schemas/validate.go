// Package schemas provides JSON Schema validation of résumé data sources.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

// rootField names the document root in violation paths
const rootField = "(root)"

// Validator checks raw résumé data against the embedded résumé schema.
// A Validator is safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the embedded résumé schema
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    "resume.schema.json",
			Message: "embedded schema is invalid",
			Cause:   err,
		}
	}
	return &Validator{schema: schema}, nil
}

// Schema returns the embedded résumé schema document
func Schema() []byte {
	return resumeSchema
}

// Validate checks JSON bytes against the résumé schema and decodes them.
// Types must match exactly; nothing is coerced. Keys are matched
// case-sensitively on decode, as the schema matches them, so a key such as
// "NAME" can never replace the validated "name".
func (v *Validator) Validate(raw []byte) (*types.ResumeDocument, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SourceError{Path: "(input)", Message: "invalid JSON format", Cause: err, kind: types.KindMalformedSyntax}
	}
	if !result.Valid() {
		return nil, newValidationError(result.Errors())
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &SourceError{Path: "(input)", Message: "failed to decode resume data", Cause: err, kind: types.KindMalformedSyntax}
	}
	return &doc, nil
}

// Load reads a data source from disk and validates it
func (v *Validator) Load(path string) (*types.ResumeDocument, error) {
	src, err := LoadSource(path)
	if err != nil {
		return nil, err
	}
	doc, err := v.Validate(src.JSON)
	if err != nil {
		if se, ok := err.(*SourceError); ok {
			se.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// ValidateJSON validates a data file against a JSON Schema file.
// The data file may be JSON or YAML.
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}

	src, err := LoadSource(jsonPath)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaAbsPath))
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(src.JSON))
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaAbsPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}
	return newValidationError(result.Errors())
}

// newValidationError orders violations by the rule they break and keeps
// the first as the reported path and reason.
func newValidationError(descs []gojsonschema.ResultError) *ValidationError {
	type ranked struct {
		rank  int
		depth int
		field FieldError
	}

	all := make([]ranked, 0, len(descs))
	for _, desc := range descs {
		parent, path := violationPath(desc)
		all = append(all, ranked{
			rank:  ruleRank(desc.Type(), parent, path),
			depth: strings.Count(path, ".") + 1,
			field: FieldError{Field: path, Message: desc.Description()},
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.depth != b.depth {
			return a.depth < b.depth
		}
		if a.field.Field != b.field.Field {
			return a.field.Field < b.field.Field
		}
		return a.field.Message < b.field.Message
	})

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(all)),
	}
	for _, r := range all {
		validationErr.Errors = append(validationErr.Errors, r.field)
	}
	if len(validationErr.Errors) > 0 {
		validationErr.Path = validationErr.Errors[0].Field
		validationErr.Reason = validationErr.Errors[0].Message
	}
	return validationErr
}

// violationPath returns the dotted path of the object the violation was
// found in and the path of the offending value. For missing and
// disallowed properties the property name is appended.
func violationPath(desc gojsonschema.ResultError) (parent, path string) {
	parent = strings.TrimPrefix(desc.Context().String(), rootField)
	parent = strings.TrimPrefix(parent, ".")
	path = parent

	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			switch {
			case path == "":
				path = prop
			case !strings.HasSuffix(path, "."+prop):
				path += "." + prop
			}
		}
	}

	if path == "" {
		path = rootField
	}
	return parent, path
}

// ruleRank orders violations so that root shape problems come first,
// then name, summary, contact entries, sections, and content items.
func ruleRank(errType, parent, path string) int {
	if path == rootField || (errType == "required" && parent == "") {
		return 0
	}
	top := path
	if i := strings.IndexByte(top, '.'); i >= 0 {
		top = top[:i]
	}
	switch top {
	case "name":
		return 1
	case "summary":
		return 2
	case "contactInfo":
		return 3
	case "sections":
		if strings.Contains(path, ".content.") {
			return 5
		}
		return 4
	}
	return 6
}
