package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPositiveMass rejects a body whose mass is zero, negative or not
	// a finite number. Only returned when mass validation is enabled.
	ErrNonPositiveMass = errors.New("sim: body mass must be positive")

	// ErrDriverStopped indicates a request was submitted after Stop.
	ErrDriverStopped = errors.New("sim: driver stopped")
)

// BodyError wraps an error with the registry index of the offending body.
type BodyError struct {
	Index   int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
