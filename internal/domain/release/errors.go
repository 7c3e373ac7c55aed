package release

import (
	"errors"
	"fmt"
)

// Domain errors for the release workflow.
var (
	// ErrInvalidTransition indicates an event with no transition from the current state.
	ErrInvalidTransition = errors.New("invalid release state transition")

	// ErrNothingPending indicates a push was requested with no upgraded version staged.
	ErrNothingPending = errors.New("nothing to push: no upgraded version is pending, run upgrade-version first")
)

// TransitionError describes a rejected event.
type TransitionError struct {
	State State
	Event Event
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Event, e.State)
}

// Unwrap returns the matching sentinel for errors.Is.
func (e *TransitionError) Unwrap() error {
	if e.Event == EventPush && e.State == StateClean {
		return ErrNothingPending
	}
	return ErrInvalidTransition
}
