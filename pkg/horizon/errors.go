package horizon

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is matched by every *CapacityError.
	ErrCapacityExceeded = errors.New("horizon: capacity exceeded")
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("horizon: not found")
	// ErrEmptyText rejects tasks without a description.
	ErrEmptyText = errors.New("horizon: task text is required")
)

// CapacityError reports that a horizon cannot take another open task.
type CapacityError struct {
	Horizon ID
	Limit   int
	// Open is the number of open tasks the horizon would hold after the
	// rejected mutation.
	Open int
	// Focus marks the daily focus limit derived by the planner rather than
	// the horizon's configured capacity.
	Focus bool
}

func (e *CapacityError) Error() string {
	if e.Focus {
		return fmt.Sprintf("horizon: today's focus limit for %s is %d; this would make %d open tasks, move one out first",
			e.Horizon, e.Limit, e.Open)
	}
	return fmt.Sprintf("horizon: %s is full (limit %d open tasks, would have %d); complete or move a task first",
		e.Horizon, e.Limit, e.Open)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// NotFoundError reports a task or horizon the caller referenced but the store
// does not hold. It indicates the caller's view is out of sync.
type NotFoundError struct {
	TaskID  string
	Horizon ID
}

func (e *NotFoundError) Error() string {
	switch {
	case e.TaskID == "":
		return fmt.Sprintf("horizon: unknown horizon %q", e.Horizon)
	case e.Horizon == "":
		return fmt.Sprintf("horizon: task %q not found", e.TaskID)
	default:
		return fmt.Sprintf("horizon: task %q not found in %s", e.TaskID, e.Horizon)
	}
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
