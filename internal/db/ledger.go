package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/cvbuilder/internal/batch"
	"github.com/jonathan/cvbuilder/internal/types"
)

// Ledger records batch runs in the database
type Ledger struct {
	db *DB
}

var _ batch.Recorder = (*Ledger)(nil)

// NewLedger creates a batch.Recorder backed by db
func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

// StartRun implements batch.Recorder
func (l *Ledger) StartRun(ctx context.Context, report *batch.Report) error {
	return l.db.CreateRun(ctx, &RunInput{
		ID:          report.RunID,
		TemplateDir: report.TemplateDir,
		SampleDir:   report.SampleDir,
		OutputDir:   report.OutputDir,
		TaskCount:   len(report.Plan.Tasks),
		StartedAt:   report.Started,
	})
}

// RecordOutcome implements batch.Recorder
func (l *Ledger) RecordOutcome(ctx context.Context, runID uuid.UUID, outcome batch.TaskOutcome) error {
	return l.db.SaveTask(ctx, taskRecord(runID, outcome))
}

// FinishRun implements batch.Recorder
func (l *Ledger) FinishRun(ctx context.Context, report *batch.Report) error {
	summary := report.Summary()
	return l.db.CompleteRun(ctx, report.RunID, StatusCompleted, RunTotals{
		Succeeded:  summary.Succeeded,
		Failed:     summary.Failed,
		Cancelled:  summary.Cancelled,
		DurationMs: report.Duration.Milliseconds(),
	})
}

// taskRecord converts a batch outcome into its stored form
func taskRecord(runID uuid.UUID, outcome batch.TaskOutcome) *TaskRecord {
	rec := &TaskRecord{
		RunID:        runID,
		TaskIndex:    outcome.Task.Index,
		DataPath:     outcome.Task.DataPath,
		TemplatePath: outcome.Task.TemplatePath,
		DurationMs:   outcome.Duration.Milliseconds(),
	}

	switch {
	case outcome.Succeeded():
		rec.Status = StatusSucceeded
		res := outcome.Result
		rec.HTMLPath = optional(res.HTMLPath)
		rec.PDFPath = optional(res.PDFPath)
		rec.ScreenshotPath = optional(res.ScreenshotPath)
		for _, w := range res.Warnings {
			rec.Warnings = append(rec.Warnings, w.String())
		}
	default:
		rec.Status = StatusFailed
		if outcome.Kind == types.KindCancelled {
			rec.Status = StatusCancelled
		}
		rec.ErrorKind = optional(outcome.Kind.String())
		if outcome.Err != nil {
			rec.ErrorMessage = optional(outcome.Err.Error())
		}
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
