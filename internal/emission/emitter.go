// Package emission writes rendered markup to disk and derives the PDF and
// Markdown companions of each HTML document.
package emission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/cvbuilder/internal/pdf"
	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/natefinch/atomic"
)

const (
	dirPerm  os.FileMode = 0o750
	filePerm os.FileMode = 0o644
)

// NoBackendMessage is the warning attached when PDF output is skipped
const NoBackendMessage = "PDF generation skipped: no PDF backend available"

// Options controls optional outputs
type Options struct {
	// MaxPages flags PDFs longer than this many pages. Zero disables the check.
	MaxPages int
	// Markdown also writes <base>.md next to the HTML file
	Markdown bool
}

// Emitter writes documents to an output directory
type Emitter struct {
	backend  pdf.Backend
	opts     Options
	markdown *converter.Converter
	logger   *slog.Logger

	countPages func([]byte) (int, error)
}

// NewEmitter creates an emitter. A nil backend behaves like pdf.None.
func NewEmitter(backend pdf.Backend, opts Options, logger *slog.Logger) *Emitter {
	if backend == nil {
		backend = pdf.None{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Emitter{
		backend: backend,
		opts:    opts,
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		logger:     logger,
		countPages: pdf.PageCount,
	}
}

// Backend returns the PDF backend in use
func (e *Emitter) Backend() pdf.Backend {
	return e.backend
}

// Emit writes markup to <dir>/<base>.html and derives the optional outputs.
// Only a failure to write the HTML file is returned as an error; PDF and
// Markdown problems become warnings on the result.
func (e *Emitter) Emit(ctx context.Context, markup, dir, base string) (*types.GenerationResult, error) {
	if base == "" {
		return nil, &WriteError{Path: dir, Message: "empty output name"}
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, &WriteError{Path: dir, Message: "failed to resolve output directory", Cause: err}
	}
	if err := os.MkdirAll(absDir, dirPerm); err != nil {
		return nil, &WriteError{Path: absDir, Message: "failed to create output directory", Cause: err}
	}

	result := &types.GenerationResult{
		HTMLPath: filepath.Join(absDir, base+".html"),
		Title:    documentTitle(markup),
	}
	if err := writeFile(result.HTMLPath, []byte(markup)); err != nil {
		return nil, &WriteError{Path: result.HTMLPath, Message: "failed to write HTML file", Cause: err}
	}
	e.logger.Debug("html written", "path", result.HTMLPath, "bytes", len(markup))

	e.emitPDF(ctx, result, filepath.Join(absDir, base+".pdf"))

	if e.opts.Markdown {
		e.emitMarkdown(result, markup, filepath.Join(absDir, base+".md"))
	}
	return result, nil
}

// emitPDF writes <base>.pdf. A PDF left by an earlier run is removed first,
// so PDFPath and the directory contents agree whenever generation is skipped.
func (e *Emitter) emitPDF(ctx context.Context, result *types.GenerationResult, pdfPath string) {
	removePartial(pdfPath)

	if _, none := e.backend.(pdf.None); none {
		result.Warn(types.KindPDFUnavailable, NoBackendMessage)
		return
	}
	if err := ctx.Err(); err != nil {
		result.Warn(types.KindCancelled, fmt.Sprintf("PDF generation skipped: %v", err))
		return
	}
	if err := e.backend.Available(ctx); err != nil {
		result.Warn(types.KindPDFUnavailable, fmt.Sprintf("PDF generation skipped: %v", err))
		return
	}

	data, err := e.backend.Render(ctx, result.HTMLPath)
	if err == nil {
		err = writeFile(pdfPath, data)
	}
	if err != nil {
		removePartial(pdfPath)
		if errors.Is(err, pdf.ErrUnavailable) {
			result.Warn(types.KindPDFUnavailable, fmt.Sprintf("PDF generation skipped: %v", err))
			return
		}
		e.logger.Warn("pdf generation failed", "backend", e.backend.Name(), "error", err)
		result.Warn(types.KindEmissionPDF, fmt.Sprintf("PDF generation failed: %v", err))
		return
	}
	result.PDFPath = pdfPath

	pages, err := e.countPages(data)
	if err != nil {
		e.logger.Warn("could not count pdf pages", "path", pdfPath, "error", err)
		return
	}
	result.PDFPages = pages
	if e.opts.MaxPages > 0 && pages > e.opts.MaxPages {
		result.Warn(types.KindPDFPageLimit,
			fmt.Sprintf("PDF has %d pages, more than the limit of %d", pages, e.opts.MaxPages))
	}
}

func (e *Emitter) emitMarkdown(result *types.GenerationResult, markup, mdPath string) {
	md, err := e.markdown.ConvertString(markup)
	if err == nil {
		err = writeFile(mdPath, []byte(md))
	}
	if err != nil {
		removePartial(mdPath)
		result.Warn(types.KindMarkdownExport, fmt.Sprintf("Markdown export failed: %v", err))
		return
	}
	result.MarkdownPath = mdPath
}

// documentTitle returns the text of the first <title> element, if any
func documentTitle(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// writeFile replaces path atomically so readers never see a partial file
func writeFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, filePerm) // #nosec G302 -- generated documents are meant to be shared
}

func removePartial(path string) {
	_ = os.Remove(path)
}
