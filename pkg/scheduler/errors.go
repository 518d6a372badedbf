package scheduler

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedGroup indicates a packet group outside the known kinds.
var ErrUnrecognizedGroup = errors.New("unrecognized packet group")

// LinkWriteError indicates the UART write of a record failed.
// The record stays pending and the send may be retried on a later tick.
type LinkWriteError struct {
	Kind Kind
	Err  error
}

// Error implements error.
func (e *LinkWriteError) Error() string {
	return fmt.Sprintf("transmit %s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying write error.
func (e *LinkWriteError) Unwrap() error {
	return e.Err
}

// Temporary reports the failure as retryable.
func (e *LinkWriteError) Temporary() bool {
	return true
}
