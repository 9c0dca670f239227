package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/focus/pkg/horizon"
)

// Candidate is an open task in a coarser horizon that could be pulled
// closer to today.
type Candidate struct {
	Task        horizon.Task `json:"task"`
	Horizon     horizon.ID   `json:"horizon"`
	Project     string       `json:"project,omitempty"`
	LastTouched time.Time    `json:"lastTouched"`
}

// Candidates returns open tasks that sit in a horizon coarser than target,
// most recently touched first. When since is non-zero only tasks touched at
// or after it are returned; intake tasks are always included so nothing
// captured is forgotten.
func (s *Service) Candidates(ctx context.Context, target horizon.ID, since time.Time) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if target == "" {
		target = horizon.Daily
	}
	s.mu.Lock()
	snap := s.horizons.Snapshot()
	projects := make(map[string]string, len(s.projects))
	for _, p := range s.projects {
		projects[p.ID] = p.Name
	}
	s.mu.Unlock()

	var results []Candidate
	for _, h := range snap.Horizons {
		if !h.ID.CoarserThan(target) {
			continue
		}
		for _, t := range h.Tasks {
			if !t.Open() {
				continue
			}
			last := t.LastTouched()
			if h.ID != horizon.Intake && !since.IsZero() && last.Before(since) {
				continue
			}
			results = append(results, Candidate{
				Task:        t,
				Horizon:     h.ID,
				Project:     projects[t.ProjectID],
				LastTouched: last,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		li := results[i].LastTouched
		lj := results[j].LastTouched
		if li.Equal(lj) {
			return results[i].Horizon.Rank() > results[j].Horizon.Rank()
		}
		return li.After(lj)
	})
	return results, nil
}
