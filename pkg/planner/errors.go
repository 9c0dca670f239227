package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSelection is matched by every *SelectionError.
	ErrInvalidSelection = errors.New("planner: invalid selection")
	// ErrClosed is returned by a session that was already committed or skipped.
	ErrClosed = errors.New("planner: session already finished for today")
	// ErrNotStageable rejects staging a task that cannot move in that direction.
	ErrNotStageable = errors.New("planner: task cannot be staged")
)

// SelectionError reports a missing or unknown time/energy selection.
type SelectionError struct {
	// Field is "time", "energy" or "time and energy".
	Field string
	// Value is the rejected input; empty when the selection is missing.
	Value string
}

func (e *SelectionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("planner: choose %s before planning the day", e.Field)
	}
	switch e.Field {
	case "time":
		return fmt.Sprintf("planner: unknown time budget %q (choose one of %s)", e.Value, describeChoices(TimeBudgets()))
	case "energy":
		return fmt.Sprintf("planner: unknown energy level %q (choose one of %s)", e.Value, describeChoices(EnergyLevels()))
	default:
		return fmt.Sprintf("planner: invalid %s %q", e.Field, e.Value)
	}
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// CommitError reports a commit that stopped part way. Applied moves stay
// applied; the failed move and everything after it were not attempted again.
type CommitError struct {
	Applied []Move
	Failed  Move
	Pending []Move
	Err     error
}

func (e *CommitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "planner: commit stopped at %s: %v", e.Failed, e.Err)
	fmt.Fprintf(&b, " (%d applied, %d not attempted)", len(e.Applied), len(e.Pending))
	return b.String()
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// PrimaryError reports that the moves were applied and the day's setup was
// recorded, but the chosen primary could not be set. The setup is stored
// without a primary.
type PrimaryError struct {
	TaskID string
	Err    error
}

func (e *PrimaryError) Error() string {
	return fmt.Sprintf("planner: day committed without primary %s: %v", e.TaskID, e.Err)
}

func (e *PrimaryError) Unwrap() error {
	return e.Err
}
