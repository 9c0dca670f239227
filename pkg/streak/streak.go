// Package streak counts consecutive days of habit check-ins.
package streak

import (
	"sort"

	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/ledger"
)

// MaxWalk bounds the backward walk. Longer runs are truncated in what
// Current reports; stored history is untouched.
const MaxWalk = 365

// Days returns the set of days the habit was checked in on or before today.
func Days(habitID string, checkIns []ledger.CheckIn, today datekey.Key) map[datekey.Key]bool {
	days := make(map[datekey.Key]bool)
	for _, c := range checkIns {
		if c.HabitID != habitID || !c.Date.Valid() || c.Date.After(today) {
			continue
		}
		days[c.Date] = true
	}
	return days
}

// Current is the unbroken run of checked days ending today, or ending
// yesterday when today has not been checked yet.
func Current(habitID string, checkIns []ledger.CheckIn, today datekey.Key) int {
	days := Days(habitID, checkIns, today)
	if len(days) == 0 {
		return 0
	}
	day := today
	if !days[day] {
		day = day.AddDays(-1)
	}
	n := 0
	for i := 0; i < MaxWalk && days[day]; i++ {
		n++
		day = day.AddDays(-1)
	}
	return n
}

// Longest is the longest run anywhere in the habit's history up to today.
func Longest(habitID string, checkIns []ledger.CheckIn, today datekey.Key) int {
	days := Days(habitID, checkIns, today)
	keys := make([]datekey.Key, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	best, run := 0, 0
	for i, d := range keys {
		if i > 0 && keys[i-1].AddDays(1) == d {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// Best returns the highest current streak across the given habits.
func Best(habitIDs []string, checkIns []ledger.CheckIn, today datekey.Key) int {
	best := 0
	for _, id := range habitIDs {
		if n := Current(id, checkIns, today); n > best {
			best = n
		}
	}
	return best
}
