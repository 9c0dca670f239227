// Package clock abstracts the current time so date-sensitive logic can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"

	"tableflip.dev/focus/pkg/datekey"
)

// Clock reports the current instant and the local calendar day it falls on.
type Clock interface {
	Now() time.Time
	Today() datekey.Key
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

func (System) Today() datekey.Key {
	return datekey.FromTime(time.Now())
}

// Fixed is a manually driven clock.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Today() datekey.Key {
	return datekey.FromTime(f.Now())
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
