package horizon

import (
	"time"
)

// Task is an atomic unit of work living in exactly one horizon.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProjectID   string     `json:"projectId,omitempty"`
	IsPrimary   bool       `json:"isPrimary"`
	MovedFrom   ID         `json:"movedFrom,omitempty"`
	MovedAt     *time.Time `json:"movedAt,omitempty"`

	// Trail is the stack of horizons the task has been moved out of, most
	// recent last. MovedFrom always mirrors its top.
	Trail []ID `json:"trail,omitempty"`
}

// Open reports whether the task counts against its horizon's capacity.
func (t Task) Open() bool {
	return !t.Completed
}

// LastTouched returns the most recent of creation, move and completion.
func (t Task) LastTouched() time.Time {
	latest := t.CreatedAt
	if t.MovedAt != nil && t.MovedAt.After(latest) {
		latest = *t.MovedAt
	}
	if t.CompletedAt != nil && t.CompletedAt.After(latest) {
		latest = *t.CompletedAt
	}
	return latest
}

// clone deep-copies the pointer and slice fields.
func (t Task) clone() Task {
	cp := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		cp.CompletedAt = &at
	}
	if t.MovedAt != nil {
		at := *t.MovedAt
		cp.MovedAt = &at
	}
	if len(t.Trail) > 0 {
		cp.Trail = append([]ID(nil), t.Trail...)
	}
	return cp
}

// recordMove updates provenance for a move from -> to. Moving straight back
// to the horizon the task last came from unwinds that step, so a round trip
// restores the previous MovedFrom.
func (t *Task) recordMove(from, to ID, at time.Time) {
	if n := len(t.Trail); n > 0 && t.Trail[n-1] == to {
		t.Trail = t.Trail[:n-1]
	} else {
		t.Trail = append(t.Trail, from)
	}
	t.MovedFrom = ""
	if n := len(t.Trail); n > 0 {
		t.MovedFrom = t.Trail[n-1]
	}
	t.MovedAt = &at
}

// Horizon is a named, ordered list of tasks with a capacity limit.
type Horizon struct {
	ID       ID     `json:"id"`
	Capacity int    `json:"capacity"`
	Tasks    []Task `json:"tasks"`
}

// Bounded reports whether the horizon has a capacity limit.
func (h Horizon) Bounded() bool {
	return h.Capacity > 0
}

// OpenCount counts the non-completed tasks.
func (h Horizon) OpenCount() int {
	n := 0
	for _, t := range h.Tasks {
		if t.Open() {
			n++
		}
	}
	return n
}

// Remaining returns how many more open tasks fit, or -1 when unbounded.
func (h Horizon) Remaining() int {
	if !h.Bounded() {
		return -1
	}
	if r := h.Capacity - h.OpenCount(); r > 0 {
		return r
	}
	return 0
}

// Primary returns the primary task, if any.
func (h Horizon) Primary() (Task, bool) {
	for _, t := range h.Tasks {
		if t.IsPrimary {
			return t, true
		}
	}
	return Task{}, false
}

// Task looks up a task by id.
func (h Horizon) Task(id string) (Task, bool) {
	if i := h.index(id); i >= 0 {
		return h.Tasks[i], true
	}
	return Task{}, false
}

func (h Horizon) index(id string) int {
	for i, t := range h.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (h Horizon) clone() Horizon {
	cp := Horizon{ID: h.ID, Capacity: h.Capacity, Tasks: make([]Task, len(h.Tasks))}
	for i, t := range h.Tasks {
		cp.Tasks[i] = t.clone()
	}
	return cp
}
