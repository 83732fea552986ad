package screenshot

import (
	"fmt"

	"github.com/jonathan/cvbuilder/internal/types"
)

// CaptureError represents a screenshot that could not be taken
type CaptureError struct {
	Path    string
	Message string
	Stderr  string
	Cause   error
	kind    types.ErrorKind
}

func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("screenshot error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("screenshot error: %s", e.Message)
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *CaptureError) Kind() types.ErrorKind { return e.kind }
