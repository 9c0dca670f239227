package planner

import (
	"sort"
	"sync"
	"time"

	"tableflip.dev/focus/pkg/datekey"
)

// Setup is the record of one day's planning. There is at most one per date.
type Setup struct {
	Date          datekey.Key `json:"date"`
	TimeBudget    TimeBudget  `json:"timeBudget,omitempty"`
	EnergyLevel   EnergyLevel `json:"energyLevel,omitempty"`
	ComputedLimit int         `json:"computedLimit,omitempty"`
	PrimaryTaskID string      `json:"primaryTaskId,omitempty"`
	CommittedAt   *time.Time  `json:"committedAt,omitempty"`
	Skipped       bool        `json:"skipped,omitempty"`
	SkippedAt     *time.Time  `json:"skippedAt,omitempty"`
}

// Book keeps the daily setups keyed by date.
type Book struct {
	mu     sync.RWMutex
	setups map[datekey.Key]Setup
}

// NewBook returns a book seeded with the given setups. Later entries for the
// same date win.
func NewBook(setups ...Setup) *Book {
	b := &Book{setups: make(map[datekey.Key]Setup, len(setups))}
	for _, s := range setups {
		b.setups[s.Date] = s
	}
	return b
}

// Upsert stores s, replacing any setup for the same date.
func (b *Book) Upsert(s Setup) {
	b.mu.Lock()
	b.setups[s.Date] = s
	b.mu.Unlock()
}

// Get returns the setup for date.
func (b *Book) Get(date datekey.Key) (Setup, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.setups[date]
	return s, ok
}

// All returns every setup ordered by date.
func (b *Book) All() []Setup {
	b.mu.RLock()
	out := make([]Setup, 0, len(b.setups))
	for _, s := range b.setups {
		out = append(out, s)
	}
	b.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
