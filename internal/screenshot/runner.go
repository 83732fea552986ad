package screenshot

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long output pipes are drained after a kill
const waitDelay = 2 * time.Second

// ExecResult is the outcome of running an external process
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// Runner starts external processes. It returns an error only when the
// process could not be started; a non-zero exit is reported in ExecResult.
type Runner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) (ExecResult, error)
}

// ExecRunner runs processes with os/exec
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, name string, args []string, timeout time.Duration) (ExecResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- browser binary resolved from config or PATH
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	runErr := cmd.Run()
	result := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		TimedOut: errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return result, nil
	case errors.As(runErr, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	case result.TimedOut:
		result.ExitCode = -1
		return result, nil
	}
	return result, runErr
}
