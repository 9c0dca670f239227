// Package ledger is the append-only activity log the analytics read from.
//
// The ledger owns two lists: completion-type events and habit check-ins.
// Events are never mutated or removed. Readers always get a copy of a prefix
// of the log, so reading while a single writer appends is safe.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/horizon"
)

// Kind classifies an activity event.
type Kind string

const (
	KindTaskCompleted    Kind = "task-completed"
	KindHabitChecked     Kind = "habit-checked"
	KindJournalWritten   Kind = "journal-written"
	KindProjectCompleted Kind = "project-completed"
)

// Kinds returns every event kind.
func Kinds() []Kind {
	return []Kind{KindTaskCompleted, KindHabitChecked, KindJournalWritten, KindProjectCompleted}
}

// Event is one completion-type occurrence.
type Event struct {
	Kind      Kind       `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
	Horizon   horizon.ID `json:"horizon,omitempty"`
	// SubjectID names the task, habit, journal entry or project involved.
	SubjectID string `json:"subjectId,omitempty"`
}

// Day returns the local calendar day the event happened on.
func (e Event) Day() datekey.Key {
	return datekey.FromTime(e.Timestamp)
}

// CheckIn records that a habit was done on a calendar day.
type CheckIn struct {
	HabitID    string      `json:"habitId"`
	Date       datekey.Key `json:"date"`
	RecordedAt time.Time   `json:"recordedAt"`
}

type checkInKey struct {
	habitID string
	date    datekey.Key
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	events   []Event
	checkIns []CheckIn
	checked  map[checkInKey]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{checked: make(map[checkInKey]int)}
}

// Restore rebuilds a ledger from persisted lists. Duplicate (habit, date)
// check-ins are rejected.
func Restore(events []Event, checkIns []CheckIn) (*Ledger, error) {
	l := New()
	l.events = append([]Event(nil), events...)
	for _, c := range checkIns {
		if !c.Date.Valid() {
			return nil, fmt.Errorf("ledger: check-in for %q has invalid date %q", c.HabitID, c.Date)
		}
		k := checkInKey{c.HabitID, c.Date}
		if _, dup := l.checked[k]; dup {
			return nil, fmt.Errorf("ledger: duplicate check-in for %q on %s", c.HabitID, c.Date)
		}
		l.checked[k] = len(l.checkIns)
		l.checkIns = append(l.checkIns, c)
	}
	return l, nil
}

// Append adds an event to the end of the log.
func (l *Ledger) Append(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

// RecordCompletion appends a task-completed event. It lets the ledger act as
// the horizon store's completion recorder.
func (l *Ledger) RecordCompletion(taskID string, h horizon.ID, at time.Time) {
	l.Append(Event{Kind: KindTaskCompleted, Timestamp: at, Horizon: h, SubjectID: taskID})
}

// CheckIn records the habit as done on date and appends a habit-checked
// event. A second check-in for the same day is ignored and reported as false.
func (l *Ledger) CheckIn(habitID string, date datekey.Key, at time.Time) (CheckIn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := checkInKey{habitID, date}
	if i, ok := l.checked[k]; ok {
		return l.checkIns[i], false
	}
	c := CheckIn{HabitID: habitID, Date: date, RecordedAt: at}
	l.checked[k] = len(l.checkIns)
	l.checkIns = append(l.checkIns, c)
	l.events = append(l.events, Event{Kind: KindHabitChecked, Timestamp: at, SubjectID: habitID})
	return c, true
}

// Uncheck removes a check-in. The habit-checked event stays in the log.
func (l *Ledger) Uncheck(habitID string, date datekey.Key) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := checkInKey{habitID, date}
	i, ok := l.checked[k]
	if !ok {
		return false
	}
	l.checkIns = append(l.checkIns[:i], l.checkIns[i+1:]...)
	delete(l.checked, k)
	for j := i; j < len(l.checkIns); j++ {
		c := l.checkIns[j]
		l.checked[checkInKey{c.HabitID, c.Date}] = j
	}
	return true
}

// Checked reports whether the habit has a check-in on date.
func (l *Ledger) Checked(habitID string, date datekey.Key) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.checked[checkInKey{habitID, date}]
	return ok
}

// Events returns a copy of the log in append order.
func (l *Ledger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event(nil), l.events...)
}

// Between returns events with since <= timestamp <= until, in append order.
func (l *Ledger) Between(since, until time.Time) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Event
	for _, e := range l.events {
		if e.Timestamp.Before(since) || e.Timestamp.After(until) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CheckIns returns a copy of every check-in ordered by date, then habit.
func (l *Ledger) CheckIns() []CheckIn {
	l.mu.RLock()
	out := append([]CheckIn(nil), l.checkIns...)
	l.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].HabitID < out[j].HabitID
		}
		return out[i].Date < out[j].Date
	})
	return out
}

// Len returns the number of events.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
