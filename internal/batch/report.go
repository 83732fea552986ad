package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cvbuilder/internal/types"
)

// TaskOutcome is the result of one pairing
type TaskOutcome struct {
	Task     Task
	Result   *types.GenerationResult
	Err      error
	Kind     types.ErrorKind
	Duration time.Duration
}

// Succeeded reports whether the task produced its HTML document
func (o TaskOutcome) Succeeded() bool {
	return o.Err == nil && o.Result != nil
}

func (o *TaskOutcome) fail(err error) {
	o.Err = err
	o.Kind = types.KindOf(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		o.Kind = types.KindCancelled
	}
}

// Report describes a finished run
type Report struct {
	RunID       uuid.UUID
	Plan        *Plan
	TemplateDir string
	SampleDir   string
	OutputDir   string
	Started     time.Time
	Duration    time.Duration
	Outcomes    []TaskOutcome
}

// Summary holds the tallies of a run
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Cancelled int
	Warnings  int
}

// Summary tallies the outcomes of the run
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.Outcomes {
		s.Attempted++
		switch {
		case o.Succeeded():
			s.Succeeded++
			s.Warnings += len(o.Result.Warnings)
		case o.Kind == types.KindCancelled:
			s.Cancelled++
		default:
			s.Failed++
		}
	}
	return s
}

// Failures returns the outcomes that did not succeed
func (r *Report) Failures() []TaskOutcome {
	var failed []TaskOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}
