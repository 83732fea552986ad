package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cvbuilder/internal/batch"
	"github.com/jonathan/cvbuilder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRecord_Success(t *testing.T) {
	runID := uuid.New()
	result := &types.GenerationResult{HTMLPath: "/out/jane_a_resume.html"}
	result.Warn(types.KindPDFUnavailable, "PDF generation skipped: no PDF backend available")

	rec := taskRecord(runID, batch.TaskOutcome{
		Task:     batch.Task{Index: 3, DataPath: "sample/jane.json", TemplatePath: "template/a.html"},
		Result:   result,
		Duration: 1500 * time.Millisecond,
	})

	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, 3, rec.TaskIndex)
	assert.Equal(t, StatusSucceeded, rec.Status)
	require.NotNil(t, rec.HTMLPath)
	assert.Equal(t, "/out/jane_a_resume.html", *rec.HTMLPath)
	assert.Nil(t, rec.PDFPath)
	assert.Nil(t, rec.ErrorKind)
	assert.Equal(t, []string{"PdfUnavailable: PDF generation skipped: no PDF backend available"}, rec.Warnings)
	assert.Equal(t, int64(1500), rec.DurationMs)
}

func TestTaskRecord_Failure(t *testing.T) {
	rec := taskRecord(uuid.New(), batch.TaskOutcome{
		Task: batch.Task{Index: 1},
		Err:  errors.New("render error: failed to execute template c.html"),
		Kind: types.KindTemplateRender,
	})

	assert.Equal(t, StatusFailed, rec.Status)
	require.NotNil(t, rec.ErrorKind)
	assert.Equal(t, "TemplateRender", *rec.ErrorKind)
	require.NotNil(t, rec.ErrorMessage)
	assert.Contains(t, *rec.ErrorMessage, "c.html")
	assert.Nil(t, rec.HTMLPath)
}

func TestTaskRecord_Cancelled(t *testing.T) {
	rec := taskRecord(uuid.New(), batch.TaskOutcome{Err: context.Canceled, Kind: types.KindCancelled})
	assert.Equal(t, StatusCancelled, rec.Status)
}

func TestSchemaSQL(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS batch_runs")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS task_outcomes")
}
