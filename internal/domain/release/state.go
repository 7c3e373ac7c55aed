// Package release provides the release workflow state model.
package release

import "github.com/relicta-tech/lily-assistant/internal/domain/project"

// State is the release state of a project, derived from its record.
type State string

const (
	// StateClean indicates nothing is staged for release.
	StateClean State = "CLEAN"
	// StatePending indicates an upgraded version is staged but not pushed.
	StatePending State = "PENDING"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is CLEAN or PENDING.
func (s State) IsValid() bool {
	return s == StateClean || s == StatePending
}

// StateOf derives the release state from a project record.
// PENDING iff a next version is present.
func StateOf(r project.Record) State {
	if r.HasPending() {
		return StatePending
	}
	return StateClean
}

// Event is a workflow event driving the release state.
type Event string

const (
	// EventUpgrade stages a new version.
	EventUpgrade Event = "UPGRADE"
	// EventPush promotes the staged version and publishes it.
	EventPush Event = "PUSH"
)

// String returns the string representation of the event.
func (e Event) String() string {
	return string(e)
}

func validTransitions() map[State]map[Event]State {
	return map[State]map[Event]State{
		StateClean: {
			EventUpgrade: StatePending,
		},
		StatePending: {
			EventUpgrade: StatePending,
			EventPush:    StateClean,
		},
	}
}

// Target returns the state reached by firing event from s.
func (s State) Target(event Event) (State, bool) {
	target, ok := validTransitions()[s][event]
	return target, ok
}

// CanFire returns true if event has a transition from s.
func (s State) CanFire(event Event) bool {
	_, ok := s.Target(event)
	return ok
}
