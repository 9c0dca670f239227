package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/ledger"
)

// ReportItem is one ledger event with a readable subject.
type ReportItem struct {
	Event   ledger.Event `json:"event"`
	Subject string       `json:"subject"`
}

// ReportSection groups events of one kind, and for tasks one horizon.
type ReportSection struct {
	Kind    ledger.Kind  `json:"kind"`
	Horizon horizon.ID   `json:"horizon,omitempty"`
	Items   []ReportItem `json:"items"`
}

// Title is the heading a renderer shows for the section.
func (r ReportSection) Title() string {
	if r.Horizon == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + " (" + string(r.Horizon) + ")"
}

// ReportResult encapsulates the activity report for a time window.
type ReportResult struct {
	Since    time.Time       `json:"since"`
	Until    time.Time       `json:"until"`
	Sections []ReportSection `json:"sections"`
	Total    int             `json:"total"`
}

// Report returns ledger events between the provided bounds grouped by kind
// (and horizon, for completed tasks), oldest first within each section.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if err := ctx.Err(); err != nil {
		return ReportResult{}, err
	}
	if since.After(until) {
		since, until = until, since
	}

	s.mu.Lock()
	events := s.ledger.Between(since, until)
	names := s.subjectNamesLocked()
	s.mu.Unlock()

	type key struct {
		kind ledger.Kind
		h    horizon.ID
	}
	grouped := make(map[key][]ReportItem)
	for _, e := range events {
		k := key{kind: e.Kind, h: e.Horizon}
		subject := names[e.SubjectID]
		if subject == "" {
			subject = e.SubjectID
		}
		grouped[k] = append(grouped[k], ReportItem{Event: e, Subject: subject})
	}

	result := ReportResult{Since: since, Until: until, Total: len(events)}
	for k, items := range grouped {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Event.Timestamp.Before(items[j].Event.Timestamp)
		})
		result.Sections = append(result.Sections, ReportSection{Kind: k.kind, Horizon: k.h, Items: items})
	}
	sort.Slice(result.Sections, func(i, j int) bool {
		a, b := result.Sections[i], result.Sections[j]
		if a.Kind != b.Kind {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		return a.Horizon.Rank() > b.Horizon.Rank()
	})
	return result, nil
}

func kindOrder(k ledger.Kind) int {
	for i, known := range ledger.Kinds() {
		if k == known {
			return i
		}
	}
	return len(ledger.Kinds())
}

// subjectNamesLocked maps every id an event can refer to onto a display
// name. Callers hold s.mu.
func (s *Service) subjectNamesLocked() map[string]string {
	names := make(map[string]string)
	for _, h := range s.horizons.Snapshot().Horizons {
		for _, t := range h.Tasks {
			names[t.ID] = t.Text
		}
	}
	for _, h := range s.habits {
		names[h.ID] = h.Name
	}
	for _, p := range s.projects {
		names[p.ID] = p.Name
	}
	for _, j := range s.journal {
		line, _, _ := strings.Cut(j.Text, "\n")
		names[j.ID] = line
	}
	return names
}
