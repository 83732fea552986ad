package emission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/cvbuilder/internal/pdf"
	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title> Jane Doe - Résumé </title></head>
<body><h1>Jane Doe</h1><h2>Education</h2><ul><li>State U</li></ul></body></html>`

type fakeBackend struct {
	availErr  error
	renderErr error
	data      []byte
	calls     int
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Available(context.Context) error { return f.availErr }

func (f *fakeBackend) Render(_ context.Context, htmlPath string) ([]byte, error) {
	f.calls++
	if _, err := os.Stat(htmlPath); err != nil {
		return nil, fmt.Errorf("html not written before pdf: %w", err)
	}
	return f.data, f.renderErr
}

func TestEmit_NoBackend(t *testing.T) {
	dir := t.TempDir()
	e := NewEmitter(pdf.None{}, Options{}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, dir, "jane_resume")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "jane_resume.html"), result.HTMLPath)
	assert.Empty(t, result.PDFPath)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.KindPDFUnavailable, result.Warnings[0].Kind)
	assert.Equal(t, NoBackendMessage, result.Warnings[0].Message)

	written, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	assert.Equal(t, sampleMarkup, string(written))

	_, err = os.Stat(filepath.Join(dir, "jane_resume.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestEmit_NilBackendIsNone(t *testing.T) {
	e := NewEmitter(nil, Options{}, nil)
	assert.Equal(t, pdf.BackendNone, e.Backend().Name())

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.True(t, result.HasWarning(types.KindPDFUnavailable))
}

func TestEmit_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sample", "output")
	e := NewEmitter(pdf.None{}, Options{}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, dir, "x")
	require.NoError(t, err)
	assert.FileExists(t, result.HTMLPath)
}

func TestEmit_Title(t *testing.T) {
	e := NewEmitter(pdf.None{}, Options{}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe - Résumé", result.Title)
}

func TestEmit_PDFSuccess(t *testing.T) {
	dir := t.TempDir()
	backend := &fakeBackend{data: []byte("%PDF-1.7 fake")}
	e := NewEmitter(backend, Options{}, nil)
	e.countPages = func([]byte) (int, error) { return 1, nil }

	result, err := e.Emit(context.Background(), sampleMarkup, dir, "jane_resume")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "jane_resume.pdf"), result.PDFPath)
	assert.Equal(t, 1, result.PDFPages)
	assert.Empty(t, result.Warnings)

	data, err := os.ReadFile(result.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, backend.data, data)
}

func TestEmit_PDFPageLimit(t *testing.T) {
	backend := &fakeBackend{data: []byte("%PDF")}
	e := NewEmitter(backend, Options{MaxPages: 1}, nil)
	e.countPages = func([]byte) (int, error) { return 3, nil }

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDFPath)
	assert.Equal(t, 3, result.PDFPages)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.KindPDFPageLimit, result.Warnings[0].Kind)
}

func TestEmit_PDFPageCountFailureIsQuiet(t *testing.T) {
	backend := &fakeBackend{data: []byte("%PDF")}
	e := NewEmitter(backend, Options{MaxPages: 1}, nil)
	e.countPages = func([]byte) (int, error) { return 0, errors.New("corrupt xref") }

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDFPath)
	assert.Zero(t, result.PDFPages)
	assert.Empty(t, result.Warnings)
}

func TestEmit_PDFFailureKeepsHTML(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "x.pdf")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o644))

	backend := &fakeBackend{renderErr: &pdf.Error{Backend: "fake", Message: "browser rendering failed"}}
	e := NewEmitter(backend, Options{}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, dir, "x")
	require.NoError(t, err)

	assert.FileExists(t, result.HTMLPath)
	assert.Empty(t, result.PDFPath)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.KindEmissionPDF, result.Warnings[0].Kind)
	assert.Contains(t, result.Warnings[0].Message, "browser rendering failed")
	assert.NoFileExists(t, stale)
}

func TestEmit_BackendUnavailable(t *testing.T) {
	backend := &fakeBackend{availErr: fmt.Errorf("%w: no chrome", pdf.ErrUnavailable)}
	e := NewEmitter(backend, Options{}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.Zero(t, backend.calls)
	assert.Empty(t, result.PDFPath)
	assert.True(t, result.HasWarning(types.KindPDFUnavailable))
}

func TestEmit_SkippedPDFRemovesStaleFile(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		backend pdf.Backend
		kind    types.ErrorKind
	}{
		{name: "no backend", ctx: context.Background(), backend: pdf.None{}, kind: types.KindPDFUnavailable},
		{
			name:    "backend unavailable",
			ctx:     context.Background(),
			backend: &fakeBackend{availErr: fmt.Errorf("%w: no chrome", pdf.ErrUnavailable)},
			kind:    types.KindPDFUnavailable,
		},
		{name: "cancelled", ctx: cancelled, backend: &fakeBackend{data: []byte("%PDF")}, kind: types.KindCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stale := filepath.Join(dir, "x.pdf")
			require.NoError(t, os.WriteFile(stale, []byte("%PDF from an earlier run"), 0o644))

			result, err := NewEmitter(tt.backend, Options{}, nil).Emit(tt.ctx, sampleMarkup, dir, "x")
			require.NoError(t, err)
			assert.Empty(t, result.PDFPath)
			assert.True(t, result.HasWarning(tt.kind))
			assert.NoFileExists(t, stale)
		})
	}
}

func TestEmit_CancelledSkipsPDF(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &fakeBackend{data: []byte("%PDF")}
	e := NewEmitter(backend, Options{}, nil)

	result, err := e.Emit(ctx, sampleMarkup, t.TempDir(), "x")
	require.NoError(t, err)
	assert.Zero(t, backend.calls)
	assert.True(t, result.HasWarning(types.KindCancelled))
}

func TestEmit_Markdown(t *testing.T) {
	e := NewEmitter(pdf.None{}, Options{Markdown: true}, nil)

	result, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "jane_resume")
	require.NoError(t, err)
	require.NotEmpty(t, result.MarkdownPath)

	md, err := os.ReadFile(result.MarkdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Jane Doe")
	assert.Contains(t, string(md), "## Education")
	assert.Contains(t, string(md), "State U")
}

func TestEmit_WriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	e := NewEmitter(pdf.None{}, Options{}, nil)
	_, err := e.Emit(context.Background(), sampleMarkup, blocker, "x")
	require.Error(t, err)

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, types.KindEmissionWrite, types.KindOf(err))
}

func TestEmit_EmptyBase(t *testing.T) {
	e := NewEmitter(pdf.None{}, Options{}, nil)
	_, err := e.Emit(context.Background(), sampleMarkup, t.TempDir(), "")
	assert.Equal(t, types.KindEmissionWrite, types.KindOf(err))
}
