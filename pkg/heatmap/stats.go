package heatmap

import (
	"fmt"
	"math"
	"strings"

	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
	"tableflip.dev/focus/pkg/streak"
)

// Period is a calendar window ending with the current one.
type Period string

const (
	Today   Period = "today"
	Week    Period = "week"
	Month   Period = "month"
	Quarter Period = "quarter"
	Year    Period = "year"
)

// Periods lists every period, shortest first.
func Periods() []Period {
	return []Period{Today, Week, Month, Quarter, Year}
}

// ParsePeriod converts user input into a Period.
func ParsePeriod(raw string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Periods() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("heatmap: unknown period %q", raw)
}

// Bounds returns the first and last day of the calendar period containing
// today. Weeks start on Monday; quarters start in January, April, July and
// October.
func Bounds(p Period, today datekey.Key) (start, end datekey.Key, err error) {
	switch p {
	case Today:
		return today, today, nil
	case Week:
		start = today.StartOfWeek()
		return start, start.AddDays(6), nil
	case Month:
		start = today.StartOfMonth()
		next := datekey.Of(start.Year(), start.Month()+1, 1)
		return start, next.AddDays(-1), nil
	case Quarter:
		start = today.StartOfQuarter()
		next := datekey.Of(start.Year(), start.Month()+3, 1)
		return start, next.AddDays(-1), nil
	case Year:
		start = today.StartOfYear()
		return start, datekey.Of(start.Year(), 12, 31), nil
	default:
		return "", "", fmt.Errorf("heatmap: unknown period %q", p)
	}
}

// Data is everything the analytics read.
type Data struct {
	Events   []ledger.Event
	CheckIns []ledger.CheckIn
	Journal  []journal.Entry
	// HabitIDs are the active habits, used for percentages and streaks.
	HabitIDs []string
	Today    datekey.Key
}

// Stats summarises one period.
type Stats struct {
	Period            Period      `json:"period"`
	Start             datekey.Key `json:"start"`
	End               datekey.Key `json:"end"`
	TotalTasks        int         `json:"totalTasks"`
	HabitDays         int         `json:"habitDays"`
	HabitPercentage   int         `json:"habitPercentage"`
	CurrentStreak     int         `json:"currentStreak"`
	JournalEntries    int         `json:"journalEntries"`
	ProjectsCompleted int         `json:"projectsCompleted"`
}

// PeriodStats computes the summary for the period containing d.Today.
//
// HabitDays counts distinct days with at least one check-in of an active
// habit, so every habit figure here reads the same set. HabitPercentage
// is the share of possible check-ins (active habits times days elapsed so
// far in the period) that were made, capped at 100. CurrentStreak is the best
// current streak across active habits.
func PeriodStats(d Data, p Period) (Stats, error) {
	start, end, err := Bounds(p, d.Today)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Period: p, Start: start, End: end}

	for _, e := range d.Events {
		if !e.Day().Between(start, end) {
			continue
		}
		switch e.Kind {
		case ledger.KindTaskCompleted:
			s.TotalTasks++
		case ledger.KindProjectCompleted:
			s.ProjectsCompleted++
		}
	}
	for _, j := range d.Journal {
		if j.Date.Between(start, end) {
			s.JournalEntries++
		}
	}

	active := make(map[string]bool, len(d.HabitIDs))
	for _, id := range d.HabitIDs {
		active[id] = true
	}
	days := make(map[datekey.Key]bool)
	made := 0
	for _, c := range d.CheckIns {
		if !c.Date.Between(start, end) || c.Date.After(d.Today) {
			continue
		}
		if !active[c.HabitID] {
			continue
		}
		days[c.Date] = true
		made++
	}
	s.HabitDays = len(days)

	elapsed := start.DaysUntil(d.Today) + 1
	if possible := len(d.HabitIDs) * elapsed; possible > 0 {
		pct := int(math.Round(float64(made) / float64(possible) * 100))
		s.HabitPercentage = min(pct, 100)
	}
	s.CurrentStreak = streak.Best(d.HabitIDs, d.CheckIns, d.Today)
	return s, nil
}

// Recap is a period summary with the day-level highlights.
type Recap struct {
	Stats
	ActiveDays   int         `json:"activeDays"`
	BusiestDay   datekey.Key `json:"busiestDay,omitempty"`
	BusiestCount int         `json:"busiestCount"`
}

// BuildRecap extends PeriodStats with the number of days that had any
// activity and the busiest one. Ties go to the earliest day.
func BuildRecap(d Data, p Period) (Recap, error) {
	stats, err := PeriodStats(d, p)
	if err != nil {
		return Recap{}, err
	}
	r := Recap{Stats: stats}
	counts := Counts(d.Events, d.CheckIns, d.Journal)
	for day := stats.Start; !day.After(stats.End) && !day.After(d.Today); day = day.AddDays(1) {
		n := counts[day]
		if n == 0 {
			continue
		}
		r.ActiveDays++
		if n > r.BusiestCount {
			r.BusiestDay, r.BusiestCount = day, n
		}
	}
	return r, nil
}
