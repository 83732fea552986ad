package pipeline

import (
	"fmt"

	"github.com/jonathan/cvbuilder/internal/types"
)

// CancelledError reports a generation stopped by its context
type CancelledError struct {
	Step  string
	Cause error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("generation cancelled before %s: %v", e.Step, e.Cause)
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *CancelledError) Kind() types.ErrorKind { return types.KindCancelled }
