package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/cvbuilder/internal/emission"
	"github.com/jonathan/cvbuilder/internal/pdf"
	"github.com/jonathan/cvbuilder/internal/rendering"
	"github.com/jonathan/cvbuilder/internal/schemas"
	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	validator, err := schemas.NewValidator()
	require.NoError(t, err)
	return NewGenerator(validator, rendering.NewRenderer(nil), emission.NewEmitter(pdf.None{}, emission.Options{}, nil), nil)
}

func TestGenerate_JaneDoe(t *testing.T) {
	g := newTestGenerator(t)
	out := t.TempDir()

	var events []ProgressEvent
	result, err := g.Generate(context.Background(), Request{
		DataPath:     filepath.Join("testdata", "jane.json"),
		TemplatePath: filepath.Join("testdata", "simple.html"),
		OutputDir:    out,
		OnProgress:   func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "jane_resume.html"), result.HTMLPath)
	assert.Empty(t, result.PDFPath)
	assert.Equal(t, 2, result.Sections)
	assert.Equal(t, "Jane Doe", result.Title)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.KindPDFUnavailable, result.Warnings[0].Kind)

	html, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	edu := strings.Index(string(html), "Education")
	exp := strings.Index(string(html), "Experience")
	require.True(t, edu >= 0 && exp >= 0)
	assert.Less(t, edu, exp)
	assert.Contains(t, string(html), "State U (2016-2020)")

	require.NotEmpty(t, events)
	assert.Equal(t, StepValidate, events[0].Step)
	assert.Equal(t, "JSON loaded and validated: 2 sections found", events[0].Message)
}

func TestGenerate_ExplicitBaseName(t *testing.T) {
	g := newTestGenerator(t)
	out := t.TempDir()

	result, err := g.Generate(context.Background(), Request{
		DataPath:     filepath.Join("testdata", "jane.json"),
		TemplatePath: filepath.Join("testdata", "simple.html"),
		OutputDir:    out,
		BaseName:     "jane_simple_resume",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "jane_simple_resume.html"), result.HTMLPath)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		template string
		wantKind types.ErrorKind
	}{
		{name: "missing data", data: "nope.json", template: "simple.html", wantKind: types.KindInputNotFound},
		{name: "missing name", data: "no_name.json", template: "simple.html", wantKind: types.KindSchemaViolation},
		{name: "missing template", data: "jane.json", template: "nope.html", wantKind: types.KindTemplateLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t)
			out := t.TempDir()

			result, err := g.Generate(context.Background(), Request{
				DataPath:     filepath.Join("testdata", tt.data),
				TemplatePath: filepath.Join("testdata", tt.template),
				OutputDir:    out,
			})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantKind, types.KindOf(err))

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	g := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Request{
		DataPath:     filepath.Join("testdata", "jane.json"),
		TemplatePath: filepath.Join("testdata", "simple.html"),
		OutputDir:    t.TempDir(),
	})
	require.Error(t, err)
	assert.Equal(t, types.KindCancelled, types.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "jane_resume", BaseName("/data/jane.json"))
	assert.Equal(t, "cv.v2_resume", BaseName("cv.v2.yaml"))
}
