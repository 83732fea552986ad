package pdf

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when a backend cannot run on this machine,
// for example because no browser executable was found.
var ErrUnavailable = errors.New("pdf backend unavailable")

// Error represents a failed PDF conversion
type Error struct {
	Backend string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Backend, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
