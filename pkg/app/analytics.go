package app

import (
	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/streak"
)

// StreakView is the streak summary of one habit.
type StreakView struct {
	Habit   document.Habit `json:"habit"`
	Current int            `json:"current"`
	Longest int            `json:"longest"`
}

func (s *Service) dataLocked() heatmap.Data {
	var active []string
	for _, h := range s.habits {
		if !h.Archived {
			active = append(active, h.ID)
		}
	}
	return heatmap.Data{
		Events:   s.ledger.Events(),
		CheckIns: s.ledger.CheckIns(),
		Journal:  append(s.journal[:0:0], s.journal...),
		HabitIDs: active,
		Today:    s.clock.Today(),
	}
}

// Stats summarises the calendar period containing today.
func (s *Service) Stats(p heatmap.Period) (heatmap.Stats, error) {
	s.mu.Lock()
	d := s.dataLocked()
	s.mu.Unlock()
	return heatmap.PeriodStats(d, p)
}

// Recap is Stats plus the day-level highlights.
func (s *Service) Recap(p heatmap.Period) (heatmap.Recap, error) {
	s.mu.Lock()
	d := s.dataLocked()
	s.mu.Unlock()
	return heatmap.BuildRecap(d, p)
}

// Grid builds the activity heatmap for year (this year when zero).
func (s *Service) Grid(year int) heatmap.Grid {
	s.mu.Lock()
	d := s.dataLocked()
	s.mu.Unlock()
	if year == 0 {
		year = d.Today.Year()
	}
	return heatmap.BuildYearGrid(d.Events, d.CheckIns, d.Journal, year, d.Today)
}

// Streaks returns current and longest streaks for every active habit.
func (s *Service) Streaks() []StreakView {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.clock.Today()
	checkIns := s.ledger.CheckIns()
	var out []StreakView
	for _, h := range s.habits {
		if h.Archived {
			continue
		}
		out = append(out, StreakView{
			Habit:   h,
			Current: streak.Current(h.ID, checkIns, today),
			Longest: streak.Longest(h.ID, checkIns, today),
		})
	}
	return out
}
