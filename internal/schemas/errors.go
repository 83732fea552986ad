package schemas

import (
	"fmt"
	"strings"

	"github.com/jonathan/cvbuilder/internal/types"
)

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is the structured schema violation for one document.
// Path and Reason describe the violation that matters most for user
// feedback; Errors keeps every violation in priority order.
type ValidationError struct {
	Path   string
	Reason string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid resume data at %s: %s", ve.Path, ve.Reason)
	if extra := len(ve.Errors) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// Kind implements types.Kinded
func (ve *ValidationError) Kind() types.ErrorKind { return types.KindSchemaViolation }

// Details renders every violation on its own numbered line
func (ve *ValidationError) Details() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
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

// SourceError represents a data source that could not be read or parsed
type SourceError struct {
	Path    string
	Message string
	Cause   error
	kind    types.ErrorKind
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *SourceError) Kind() types.ErrorKind { return e.kind }
