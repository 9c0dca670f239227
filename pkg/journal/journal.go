// Package journal holds dated free-form journal entries.
package journal

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/focus/pkg/datekey"
)

// Entry is a single journal write-up.
type Entry struct {
	ID        string      `json:"id"`
	Date      datekey.Key `json:"date"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// New builds an entry dated by the local day of at.
func New(id, text string, at time.Time) Entry {
	return Entry{
		ID:        id,
		Date:      datekey.FromTime(at),
		Text:      strings.TrimSpace(text),
		CreatedAt: at,
	}
}

// On returns the entries written on date, oldest first.
func On(entries []Entry, date datekey.Key) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CountByDay buckets entries per calendar day.
func CountByDay(entries []Entry) map[datekey.Key]int {
	counts := make(map[datekey.Key]int)
	for _, e := range entries {
		counts[e.Date]++
	}
	return counts
}
