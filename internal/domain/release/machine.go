package release

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// WorkflowContext is the context carried by the release machine.
type WorkflowContext struct{}

// State IDs for the state machine.
var (
	StateIDClean   statekit.StateID = statekit.StateID(StateClean)
	StateIDPending statekit.StateID = statekit.StateID(StatePending)
)

// Event types for the state machine.
var (
	EventTypeUpgrade statekit.EventType = statekit.EventType(EventUpgrade)
	EventTypePush    statekit.EventType = statekit.EventType(EventPush)
)

// Machine wraps the Statekit interpreter for one workflow step.
// It is started in the state derived from the persisted record.
type Machine struct {
	interpreter *statekit.Interpreter[WorkflowContext]
}

// NewMachine builds and starts a release machine in the given state.
func NewMachine(initial State) (*Machine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("unknown release state %q", initial)
	}

	machine, err := statekit.NewMachine[WorkflowContext]("release-workflow").
		WithInitial(statekit.StateID(initial)).
		State(StateIDClean).
		On(EventTypeUpgrade).Target(StateIDPending).
		Done().
		State(StateIDPending).
		On(EventTypeUpgrade).Target(StateIDPending).
		On(EventTypePush).Target(StateIDClean).
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &Machine{interpreter: interp}, nil
}

// Current returns the current state.
func (m *Machine) Current() State {
	return State(m.interpreter.State().Value)
}

// Fire applies event and returns the new state. Events with no transition
// from the current state are rejected with a *TransitionError.
func (m *Machine) Fire(event Event) (State, error) {
	from := m.Current()
	target, ok := from.Target(event)
	if !ok {
		return from, &TransitionError{State: from, Event: event}
	}

	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})

	if got := m.Current(); got != target {
		return got, fmt.Errorf("%w: %s from %s reached %s, want %s", ErrInvalidTransition, event, from, got, target)
	}
	return target, nil
}
