package promise

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is the rejection reason produced by Cancel.
	ErrCanceled = errors.New("promise canceled")

	// ErrAbsent is the rejection reason used when a rejection must be
	// synthesized but no concrete cause is available, e.g. rejecting
	// with a nil error, or a FlatMap handler returning a nil promise.
	ErrAbsent = errors.New("promise rejected without an error")
)

// PanicError wraps a value recovered from a panicking work function or
// transformation handler, so that the panic surfaces as a rejection of
// the derived promise instead of unwinding an arbitrary goroutine.
type PanicError struct {
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("promise handler panicked: %v", e.V)
}

// Unwrap returns the panic value, if it is itself an error.
func (e PanicError) Unwrap() error {
	if err, ok := e.V.(error); ok {
		return err
	}

	return nil
}
