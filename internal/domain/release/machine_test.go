package release

import (
	"errors"
	"testing"

	"github.com/relicta-tech/lily-assistant/internal/domain/project"
)

func TestNewMachine_StartsInGivenState(t *testing.T) {
	for _, s := range []State{StateClean, StatePending} {
		m, err := NewMachine(s)
		if err != nil {
			t.Fatalf("NewMachine(%s) error = %v", s, err)
		}
		if m.Current() != s {
			t.Errorf("Current() = %v, want %v", m.Current(), s)
		}
	}
}

func TestNewMachine_UnknownState(t *testing.T) {
	if _, err := NewMachine(State("DIRTY")); err == nil {
		t.Fatal("NewMachine() expected error for unknown state")
	}
}

func TestMachine_Fire(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		event   Event
		want    State
		wantErr error
	}{
		{"upgrade from clean", StateClean, EventUpgrade, StatePending, nil},
		{"upgrade from pending", StatePending, EventUpgrade, StatePending, nil},
		{"push from pending", StatePending, EventPush, StateClean, nil},
		{"push from clean", StateClean, EventPush, StateClean, ErrNothingPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMachine(tt.from)
			if err != nil {
				t.Fatalf("NewMachine() error = %v", err)
			}

			got, err := m.Fire(tt.event)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fire() error = %v, want %v", err, tt.wantErr)
				}
				var te *TransitionError
				if !errors.As(err, &te) {
					t.Fatalf("Fire() error type = %T, want *TransitionError", err)
				}
			} else if err != nil {
				t.Fatalf("Fire() unexpected error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Fire() state = %v, want %v", got, tt.want)
			}
			if m.Current() != tt.want {
				t.Errorf("Current() = %v, want %v", m.Current(), tt.want)
			}
		})
	}
}

func TestMachine_FullCycle(t *testing.T) {
	m, err := NewMachine(StateClean)
	if err != nil {
		t.Fatalf("NewMachine() error = %v", err)
	}

	for _, ev := range []Event{EventUpgrade, EventUpgrade, EventPush, EventUpgrade} {
		if _, err := m.Fire(ev); err != nil {
			t.Fatalf("Fire(%s) error = %v", ev, err)
		}
	}
	if m.Current() != StatePending {
		t.Errorf("Current() = %v, want %v", m.Current(), StatePending)
	}
}

func TestStateOf(t *testing.T) {
	clean := project.NewEmptyRecord("src")
	if got := StateOf(clean); got != StateClean {
		t.Errorf("StateOf(empty) = %v, want %v", got, StateClean)
	}

	pending := clean
	pending.NextVersion = project.Ptr("1.0.1")
	pending.NextLastCommitHash = project.Ptr("abc")
	if got := StateOf(pending); got != StatePending {
		t.Errorf("StateOf(pending) = %v, want %v", got, StatePending)
	}
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{State: StateClean, Event: EventPush}
	if err.Error() != "cannot PUSH in state CLEAN" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNothingPending) {
		t.Error("expected ErrNothingPending")
	}
}
