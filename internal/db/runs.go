package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRun opens a run record in the running state
func (db *DB) CreateRun(ctx context.Context, input *RunInput) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO batch_runs (id, template_dir, sample_dir, output_dir, task_count, status, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		input.ID, input.TemplateDir, input.SampleDir, input.OutputDir, input.TaskCount, StatusRunning, input.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun stores the final tallies of a run
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, totals RunTotals) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE batch_runs
		 SET status = $1, succeeded = $2, failed = $3, cancelled = $4,
		     duration_ms = $5, completed_at = NOW()
		 WHERE id = $6`,
		status, totals.Succeeded, totals.Failed, totals.Cancelled, totals.DurationMs, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to complete run: run %s not found", runID)
	}
	return nil
}

// SaveTask stores the outcome of one task, replacing any earlier record
func (db *DB) SaveTask(ctx context.Context, rec *TaskRecord) error {
	var warningsJSON []byte
	if len(rec.Warnings) > 0 {
		var err error
		warningsJSON, err = json.Marshal(rec.Warnings)
		if err != nil {
			return fmt.Errorf("failed to marshal warnings: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO task_outcomes (run_id, task_index, data_path, template_path, status,
		                            error_kind, error_message, html_path, pdf_path,
		                            screenshot_path, warnings, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (run_id, task_index) DO UPDATE
		 SET status = $5, error_kind = $6, error_message = $7, html_path = $8, pdf_path = $9,
		     screenshot_path = $10, warnings = $11, duration_ms = $12, recorded_at = NOW()`,
		rec.RunID, rec.TaskIndex, rec.DataPath, rec.TemplatePath, rec.Status,
		rec.ErrorKind, rec.ErrorMessage, rec.HTMLPath, rec.PDFPath,
		rec.ScreenshotPath, warningsJSON, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to save task %d: %w", rec.TaskIndex, err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil when not found.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, template_dir, sample_dir, output_dir, task_count, status,
		        succeeded, failed, cancelled, started_at, completed_at, duration_ms
		 FROM batch_runs WHERE id = $1`,
		runID,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, template_dir, sample_dir, output_dir, task_count, status,
		        succeeded, failed, cancelled, started_at, completed_at, duration_ms
		 FROM batch_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// ListTasks returns the stored outcomes of a run in task order
func (db *DB) ListTasks(ctx context.Context, runID uuid.UUID) ([]TaskRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT run_id, task_index, data_path, template_path, status, error_kind,
		        error_message, html_path, pdf_path, screenshot_path, warnings,
		        duration_ms, recorded_at
		 FROM task_outcomes
		 WHERE run_id = $1
		 ORDER BY task_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskRecord
	for rows.Next() {
		var rec TaskRecord
		var warningsJSON []byte
		if err := rows.Scan(&rec.RunID, &rec.TaskIndex, &rec.DataPath, &rec.TemplatePath,
			&rec.Status, &rec.ErrorKind, &rec.ErrorMessage, &rec.HTMLPath, &rec.PDFPath,
			&rec.ScreenshotPath, &warningsJSON, &rec.DurationMs, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if warningsJSON != nil {
			_ = json.Unmarshal(warningsJSON, &rec.Warnings)
		}
		tasks = append(tasks, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.TemplateDir, &run.SampleDir, &run.OutputDir, &run.TaskCount,
		&run.Status, &run.Succeeded, &run.Failed, &run.Cancelled, &run.StartedAt,
		&run.CompletedAt, &run.DurationMs)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
