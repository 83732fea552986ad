// Package rendering renders résumé documents into markup through HTML templates.
package rendering

import (
	"fmt"

	"github.com/jonathan/cvbuilder/internal/types"
)

// TemplateError represents a template that could not be loaded or parsed
type TemplateError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("template error: %s: %s", e.Message, e.Path)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *TemplateError) Kind() types.ErrorKind { return types.KindTemplateLoad }

// RenderError represents a failure executing a template against a document
type RenderError struct {
	Template string
	Message  string
	Cause    error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *RenderError) Kind() types.ErrorKind { return types.KindTemplateRender }
