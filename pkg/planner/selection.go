// Package planner runs the daily setup: it turns a time-budget and an
// energy-level selection into today's focus limit, lets the caller stage
// moves into and out of the daily horizon against that limit, and commits
// them to the horizon store.
package planner

import (
	"fmt"
	"strings"
)

// TimeBudget is how much time the day has for focused work.
type TimeBudget string

const (
	TimeShort  TimeBudget = "short"
	TimeMedium TimeBudget = "medium"
	TimeLong   TimeBudget = "long"
	TimeFull   TimeBudget = "full"
)

// EnergyLevel is how much energy the day has.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

const (
	// MinLimit keeps at least one focus item on every planned day.
	MinLimit = 1
	// MaxLimit caps daily focus regardless of time and energy.
	MaxLimit = 3
)

var (
	baseAllowance = map[TimeBudget]int{
		TimeShort:  1,
		TimeMedium: 2,
		TimeLong:   3,
		TimeFull:   3,
	}
	energyModifier = map[EnergyLevel]int{
		EnergyLow:    -1,
		EnergyMedium: 0,
		EnergyHigh:   1,
	}
)

// TimeBudgets lists the valid time budgets, smallest first.
func TimeBudgets() []TimeBudget {
	return []TimeBudget{TimeShort, TimeMedium, TimeLong, TimeFull}
}

// EnergyLevels lists the valid energy levels, lowest first.
func EnergyLevels() []EnergyLevel {
	return []EnergyLevel{EnergyLow, EnergyMedium, EnergyHigh}
}

// ParseTimeBudget converts user input into a TimeBudget.
func ParseTimeBudget(raw string) (TimeBudget, error) {
	t := TimeBudget(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := baseAllowance[t]; !ok {
		return "", &SelectionError{Field: "time", Value: raw}
	}
	return t, nil
}

// ParseEnergyLevel converts user input into an EnergyLevel.
func ParseEnergyLevel(raw string) (EnergyLevel, error) {
	e := EnergyLevel(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := energyModifier[e]; !ok {
		return "", &SelectionError{Field: "energy", Value: raw}
	}
	return e, nil
}

// ComputeLimit derives today's focus capacity: the time budget's base
// allowance plus the energy modifier, clamped to [MinLimit, MaxLimit].
func ComputeLimit(t TimeBudget, e EnergyLevel) (int, error) {
	base, ok := baseAllowance[t]
	if !ok {
		return 0, &SelectionError{Field: "time", Value: string(t)}
	}
	mod, ok := energyModifier[e]
	if !ok {
		return 0, &SelectionError{Field: "energy", Value: string(e)}
	}
	return clamp(base+mod, MinLimit, MaxLimit), nil
}

func clamp(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func (t TimeBudget) String() string { return string(t) }

func (e EnergyLevel) String() string { return string(e) }

func describeChoices[T fmt.Stringer](choices []T) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
