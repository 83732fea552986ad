package db

import (
	"time"

	"github.com/google/uuid"
)

// Run and task status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run represents a batch run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	TemplateDir string     `json:"template_dir"`
	SampleDir   string     `json:"sample_dir"`
	OutputDir   string     `json:"output_dir"`
	TaskCount   int        `json:"task_count"`
	Status      string     `json:"status"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Cancelled   int        `json:"cancelled"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  *int64     `json:"duration_ms,omitempty"`
}

// RunInput holds the fields needed to open a run record
type RunInput struct {
	ID          uuid.UUID
	TemplateDir string
	SampleDir   string
	OutputDir   string
	TaskCount   int
	StartedAt   time.Time
}

// RunTotals holds the tallies written when a run completes
type RunTotals struct {
	Succeeded  int
	Failed     int
	Cancelled  int
	DurationMs int64
}

// TaskRecord represents the stored outcome of one pairing
type TaskRecord struct {
	RunID          uuid.UUID `json:"run_id"`
	TaskIndex      int       `json:"task_index"`
	DataPath       string    `json:"data_path"`
	TemplatePath   string    `json:"template_path"`
	Status         string    `json:"status"`
	ErrorKind      *string   `json:"error_kind,omitempty"`
	ErrorMessage   *string   `json:"error_message,omitempty"`
	HTMLPath       *string   `json:"html_path,omitempty"`
	PDFPath        *string   `json:"pdf_path,omitempty"`
	ScreenshotPath *string   `json:"screenshot_path,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	RecordedAt     time.Time `json:"recorded_at"`
}
