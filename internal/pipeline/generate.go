// Package pipeline orchestrates generation of a single résumé: validate the
// data source, render it through a template, and emit the outputs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/cvbuilder/internal/emission"
	"github.com/jonathan/cvbuilder/internal/rendering"
	"github.com/jonathan/cvbuilder/internal/schemas"
	"github.com/jonathan/cvbuilder/internal/types"
)

// Step names reported in progress events
const (
	StepValidate = "validate"
	StepTemplate = "template"
	StepRender   = "render"
	StepEmit     = "emit"
)

// OutputSuffix is appended to the base name of every generated document
const OutputSuffix = "_resume"

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Request describes one generation
type Request struct {
	DataPath     string
	TemplatePath string
	OutputDir    string
	// BaseName names the output files. Defaults to <data-stem>_resume.
	BaseName   string
	OnProgress ProgressCallback
}

// Generator turns a data source and a template into output documents
type Generator struct {
	validator *schemas.Validator
	renderer  *rendering.Renderer
	emitter   *emission.Emitter
	logger    *slog.Logger
}

// NewGenerator wires the generation stages together
func NewGenerator(validator *schemas.Validator, renderer *rendering.Renderer, emitter *emission.Emitter, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		validator: validator,
		renderer:  renderer,
		emitter:   emitter,
		logger:    logger,
	}
}

// BaseName returns the default output base name for a data file
func BaseName(dataPath string) string {
	return schemas.Stem(dataPath) + OutputSuffix
}

// Generate validates, renders, and emits one document. Errors abort the
// generation; optional outputs that fail are reported as result warnings.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.GenerationResult, error) {
	progress := func(step, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		g.logger.Debug(msg, "step", step, "data", req.DataPath, "template", req.TemplatePath)
		if req.OnProgress != nil {
			req.OnProgress(ProgressEvent{Step: step, Message: msg})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Step: StepValidate, Cause: err}
	}
	doc, err := g.validator.Load(req.DataPath)
	if err != nil {
		return nil, err
	}
	progress(StepValidate, "JSON loaded and validated: %d sections found", len(doc.Sections))

	tmpl, err := g.renderer.Load(req.TemplatePath)
	if err != nil {
		return nil, err
	}
	progress(StepTemplate, "Template loaded: %s", tmpl.Path)

	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Step: StepRender, Cause: err}
	}
	markup, err := g.renderer.Render(doc, tmpl)
	if err != nil {
		return nil, err
	}

	base := req.BaseName
	if base == "" {
		base = BaseName(req.DataPath)
	}
	result, err := g.emitter.Emit(ctx, markup, req.OutputDir, base)
	if err != nil {
		return nil, err
	}
	result.Sections = len(doc.Sections)

	progress(StepEmit, "HTML resume generated: %s", result.HTMLPath)
	if result.PDFPath != "" {
		progress(StepEmit, "PDF resume generated: %s", result.PDFPath)
	}
	for _, w := range result.Warnings {
		progress(StepEmit, "%s", w.Message)
	}
	return result, nil
}
