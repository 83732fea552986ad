// Package batch generates every pairing of sample data sources and
// templates, isolating each pairing so that one failure never stops the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cvbuilder/internal/pipeline"
	"github.com/jonathan/cvbuilder/internal/types"
)

// Generator produces the documents for one pairing
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request) (*types.GenerationResult, error)
}

// Capturer takes screenshots of generated HTML files
type Capturer interface {
	Probe(ctx context.Context) (string, error)
	Capture(ctx context.Context, htmlPath string) (string, error)
}

// Recorder persists run progress. Recorder errors never fail a run.
type Recorder interface {
	StartRun(ctx context.Context, report *Report) error
	RecordOutcome(ctx context.Context, runID uuid.UUID, outcome TaskOutcome) error
	FinishRun(ctx context.Context, report *Report) error
}

// Options locates the inputs and outputs of a run
type Options struct {
	TemplateDir string
	SampleDir   string
	OutputDir   string
	// DataFile restricts the run to a single data source
	DataFile string
	// StagingDir holds per-task snapshots. Defaults to the system temp dir.
	StagingDir string
}

// Orchestrator runs batches
type Orchestrator struct {
	generator Generator
	capturer  Capturer
	recorder  Recorder
	logger    *slog.Logger

	// OnTaskStart is called before each task runs
	OnTaskStart func(task Task)
	// OnTaskDone is called with each outcome as soon as it is known
	OnTaskDone func(outcome TaskOutcome)
	// OnProgress receives generation progress of every task
	OnProgress pipeline.ProgressCallback
}

// NewOrchestrator creates an orchestrator. capturer and recorder may be nil.
func NewOrchestrator(generator Generator, capturer Capturer, recorder Recorder, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		generator: generator,
		capturer:  capturer,
		recorder:  recorder,
		logger:    logger,
	}
}

// Discover builds the plan for a run without executing it
func Discover(opts Options) (*Plan, error) {
	templates, err := DiscoverTemplates(opts.TemplateDir)
	if err != nil {
		return nil, err
	}
	data, err := DiscoverData(opts.SampleDir, opts.DataFile)
	if err != nil {
		return nil, err
	}
	return NewPlan(data, templates), nil
}

// Run executes every task of the plan discovered from opts. An error is
// returned only when the run cannot start; task failures are recorded in
// the report.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Report, error) {
	plan, err := Discover(opts)
	if err != nil {
		return nil, err
	}
	return o.Execute(ctx, plan, opts)
}

// Execute runs the tasks of plan in order
func (o *Orchestrator) Execute(ctx context.Context, plan *Plan, opts Options) (*Report, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
	}
	stagingRoot, err := os.MkdirTemp(opts.StagingDir, "cvbuilder-stage-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(stagingRoot); err != nil {
			o.logger.Warn("failed to remove staging directory", "path", stagingRoot, "error", err)
		}
	}()

	report := &Report{
		RunID:       uuid.New(),
		Plan:        plan,
		TemplateDir: opts.TemplateDir,
		SampleDir:   opts.SampleDir,
		OutputDir:   opts.OutputDir,
		Started:     time.Now(),
		Outcomes:    make([]TaskOutcome, 0, len(plan.Tasks)),
	}
	o.record("start run", func() error { return o.recorder.StartRun(ctx, report) })

	screenshots := o.probeScreenshots(ctx)

	for _, task := range plan.Tasks {
		var outcome TaskOutcome
		if err := ctx.Err(); err != nil {
			outcome = TaskOutcome{Task: task, Err: err, Kind: types.KindCancelled}
		} else {
			if o.OnTaskStart != nil {
				o.OnTaskStart(task)
			}
			outcome = o.runTask(ctx, stagingRoot, task, opts.OutputDir, screenshots)
		}

		report.Outcomes = append(report.Outcomes, outcome)
		o.record("record outcome", func() error {
			return o.recorder.RecordOutcome(context.WithoutCancel(ctx), report.RunID, outcome)
		})
		if o.OnTaskDone != nil {
			o.OnTaskDone(outcome)
		}
	}

	report.Duration = time.Since(report.Started)
	o.record("finish run", func() error { return o.recorder.FinishRun(context.WithoutCancel(ctx), report) })
	return report, nil
}

// probeScreenshots reports whether screenshots can be taken in this run
func (o *Orchestrator) probeScreenshots(ctx context.Context) error {
	if o.capturer == nil {
		return errors.New("screenshots disabled")
	}
	version, err := o.capturer.Probe(ctx)
	if err != nil {
		o.logger.Info("screenshot tool not available, skipping screenshots", "error", err)
		return err
	}
	o.logger.Info("screenshot tool available", "version", version)
	return nil
}

// runTask generates one pairing. Panics are converted into a failed outcome
// and the staged snapshot is always released.
func (o *Orchestrator) runTask(ctx context.Context, root string, task Task, outputDir string, screenshots error) (outcome TaskOutcome) {
	start := time.Now()
	outcome.Task = task
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("task panicked", "task", task.Name(), "panic", r)
			outcome.Result = nil
			outcome.Err = fmt.Errorf("task %s panicked: %v", task.Name(), r)
			outcome.Kind = types.KindUnknown
		}
		outcome.Duration = time.Since(start)
	}()

	staged, err := Stage(root, task)
	if err != nil {
		outcome.fail(err)
		return outcome
	}
	defer func() {
		if err := staged.Release(); err != nil {
			o.logger.Warn("failed to release staged data", "task", task.Name(), "error", err)
		}
	}()

	result, err := o.generator.Generate(ctx, pipeline.Request{
		DataPath:     staged.DataPath,
		TemplatePath: task.TemplatePath,
		OutputDir:    outputDir,
		BaseName:     task.BaseName(),
		OnProgress:   o.OnProgress,
	})
	if err != nil {
		outcome.fail(err)
		return outcome
	}
	outcome.Result = result

	if screenshots != nil {
		if o.capturer != nil {
			result.Warn(types.KindScreenshotUnavailable, fmt.Sprintf("screenshot skipped: %v", screenshots))
		}
		return outcome
	}
	png, err := o.capturer.Capture(ctx, result.HTMLPath)
	if err != nil {
		o.logger.Warn("screenshot failed", "task", task.Name(), "error", err)
		result.Warn(types.KindOf(err), err.Error())
		return outcome
	}
	result.ScreenshotPath = png
	return outcome
}

func (o *Orchestrator) record(op string, fn func() error) {
	if o.recorder == nil {
		return
	}
	if err := fn(); err != nil {
		o.logger.Warn("run ledger update failed", "op", op, "error", err)
	}
}
