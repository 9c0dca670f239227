// Package horizon holds the capacity-bounded, ordered task buckets that make
// up the planning pipeline (intake, quarterly, monthly, weekly, daily) and
// enforces their invariants.
package horizon

import (
	"fmt"
	"strings"
)

// ID identifies a horizon.
type ID string

const (
	// Intake is the unbounded catch-all for new ideas.
	Intake ID = "intake"
	// Quarterly holds the few outcomes for the current quarter.
	Quarterly ID = "quarterly"
	// Monthly holds this month's commitments.
	Monthly ID = "monthly"
	// Weekly holds this week's commitments.
	Weekly ID = "weekly"
	// Daily holds today's focus items.
	Daily ID = "daily"
)

// Unbounded marks a horizon without a capacity limit.
const Unbounded = 0

// All returns the canonical horizons, coarsest first.
func All() []ID {
	return []ID{
		Intake,
		Quarterly,
		Monthly,
		Weekly,
		Daily,
	}
}

// ParseID converts a string to an ID or returns an error for unknown values.
func ParseID(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	switch id {
	case "inbox":
		return Intake, nil
	case "today":
		return Daily, nil
	case "week":
		return Weekly, nil
	case "month":
		return Monthly, nil
	case "quarter":
		return Quarterly, nil
	}
	for _, candidate := range All() {
		if candidate == id {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("horizon: unknown horizon %q", raw)
}

// MustID parses the input and panics on error. Intended for tests/config.
func MustID(raw string) ID {
	id, err := ParseID(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Rank orders horizons from coarsest (0) to finest. Unknown ids rank -1.
func (id ID) Rank() int {
	for i, candidate := range All() {
		if candidate == id {
			return i
		}
	}
	return -1
}

// Known reports whether id is one of the canonical horizons.
func (id ID) Known() bool {
	return id.Rank() >= 0
}

// CoarserThan reports whether id sits before other in the pipeline.
func (id ID) CoarserThan(other ID) bool {
	return id.Known() && other.Known() && id.Rank() < other.Rank()
}

func (id ID) String() string {
	return string(id)
}

// Capacities maps each horizon to its open-task limit. Missing or
// non-positive values mean Unbounded.
type Capacities map[ID]int

// DefaultCapacities returns the stock limits. Intake is always unbounded.
func DefaultCapacities() Capacities {
	return Capacities{
		Intake:    Unbounded,
		Quarterly: 3,
		Monthly:   5,
		Weekly:    7,
		Daily:     3,
	}
}

// Of returns the capacity for id, forcing Intake to stay unbounded.
func (c Capacities) Of(id ID) int {
	if id == Intake {
		return Unbounded
	}
	limit := c[id]
	if limit < 0 {
		return Unbounded
	}
	return limit
}
