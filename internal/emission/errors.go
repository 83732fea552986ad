package emission

import (
	"fmt"

	"github.com/jonathan/cvbuilder/internal/types"
)

// WriteError represents an output file that could not be written
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Path)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Kind implements types.Kinded
func (e *WriteError) Kind() types.ErrorKind { return types.KindEmissionWrite }
