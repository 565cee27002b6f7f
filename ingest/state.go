package ingest

import (
	"errors"
	"fmt"

	"github.com/sig-0/largestbanks/progress"
)

// State is the pipeline run state
type State string

const (
	StateInit         State = "init"
	StateExtracted    State = "extracted"
	StateConverted    State = "converted"
	StateCSVPersisted State = "csv_persisted"
	StateDBPersisted  State = "db_persisted"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Terminal returns true if no transition leaves the state
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

var errInvalidTransition = errors.New("invalid state transition")

// transitions maps every non-terminal state to its only successor
var transitions = map[State]State{
	StateInit:         StateExtracted,
	StateExtracted:    StateConverted,
	StateConverted:    StateCSVPersisted,
	StateCSVPersisted: StateDBPersisted,
	StateDBPersisted:  StateDone,
}

// machine tracks the state of a single run
type machine struct {
	state State
}

func newMachine() *machine {
	return &machine{
		state: StateInit,
	}
}

// advance moves the run to the given state, which must be the next one
func (m *machine) advance(to State) error {
	if next, ok := transitions[m.state]; !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", errInvalidTransition, m.state, to)
	}

	m.state = to

	return nil
}

// fail moves the run to the failed state, from any non-terminal state
func (m *machine) fail() error {
	if m.state.Terminal() {
		return fmt.Errorf("%w: %s -> %s", errInvalidTransition, m.state, StateFailed)
	}

	m.state = StateFailed

	return nil
}

// RunError is a failed pipeline run.
// Stage is the step that failed, State is the last state reached
type RunError struct {
	Err   error
	Stage progress.Stage
	State State
}

func (e *RunError) Error() string {
	return fmt.Sprintf("pipeline failed at %s (after %s): %s", e.Stage, e.State, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
