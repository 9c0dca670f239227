// Package heatmap aggregates ledger activity into a year grid and period
// summaries. Everything here is a pure function of its inputs.
package heatmap

import (
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
)

const (
	Weeks       = 53
	DaysPerWeek = 7
)

// Activity weights. Habit check-ins are the anchor activity and weigh double.
// Habit-checked events are not counted separately; the check-in already is.
const (
	WeightTask    = 1
	WeightCheckIn = 2
	WeightJournal = 1
)

// Cell is one day of the grid.
type Cell struct {
	Date         datekey.Key `json:"date"`
	RawCount     int         `json:"rawCount"`
	Level        int         `json:"level"`
	IsToday      bool        `json:"isToday,omitempty"`
	IsFuture     bool        `json:"isFuture,omitempty"`
	InTargetYear bool        `json:"inTargetYear"`
}

// Grid is a Monday-first year of cells, Weeks columns by DaysPerWeek rows.
type Grid struct {
	Year  int                      `json:"year"`
	Weeks [Weeks][DaysPerWeek]Cell `json:"weeks"`
	Total int                      `json:"total"`
}

// Cells flattens the grid week by week.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, Weeks*DaysPerWeek)
	for w := range g.Weeks {
		out = append(out, g.Weeks[w][:]...)
	}
	return out
}

// Cell returns the cell for date if the grid covers it.
func (g Grid) Cell(date datekey.Key) (Cell, bool) {
	for w := range g.Weeks {
		for d := range g.Weeks[w] {
			if g.Weeks[w][d].Date == date {
				return g.Weeks[w][d], true
			}
		}
	}
	return Cell{}, false
}

// Level maps a raw activity count onto the 0..4 intensity scale.
func Level(raw int) int {
	switch {
	case raw <= 0:
		return 0
	case raw <= 2:
		return 1
	case raw <= 4:
		return 2
	case raw <= 6:
		return 3
	default:
		return 4
	}
}

// Counts returns the weighted activity per day.
func Counts(events []ledger.Event, checkIns []ledger.CheckIn, entries []journal.Entry) map[datekey.Key]int {
	counts := make(map[datekey.Key]int)
	for _, e := range events {
		if e.Kind == ledger.KindTaskCompleted {
			counts[e.Day()] += WeightTask
		}
	}
	for _, c := range checkIns {
		counts[c.Date] += WeightCheckIn
	}
	for _, j := range entries {
		counts[j.Date] += WeightJournal
	}
	return counts
}

// BuildYearGrid lays out year starting at the Monday on or before January 1.
// Cells from the neighbouring years keep their raw count but always show
// level 0. Total sums the raw counts of in-year cells.
func BuildYearGrid(events []ledger.Event, checkIns []ledger.CheckIn, entries []journal.Entry, year int, today datekey.Key) Grid {
	counts := Counts(events, checkIns, entries)
	start := datekey.Of(year, 1, 1).StartOfWeek()

	g := Grid{Year: year}
	day := start
	for w := 0; w < Weeks; w++ {
		for d := 0; d < DaysPerWeek; d++ {
			raw := counts[day]
			c := Cell{
				Date:         day,
				RawCount:     raw,
				IsToday:      day == today,
				IsFuture:     day.After(today),
				InTargetYear: day.Year() == year,
			}
			if c.InTargetYear {
				c.Level = Level(raw)
				g.Total += raw
			}
			g.Weeks[w][d] = c
			day = day.AddDays(1)
		}
	}
	return g
}
