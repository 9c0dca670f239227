package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/planner"
)

// Planning returns today's planning session, starting one if needed. A
// session left over from a previous day, or one already committed or
// skipped, is replaced. Staging on the session changes nothing until
// CommitPlan. The session is not safe for concurrent use; servers handling
// parallel requests use PlanDay.
func (s *Service) Planning() *planner.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.Date() != s.clock.Today() || s.session.State().Terminal() {
		s.session = planner.NewSession(s.horizons, s.setups, s.clock)
	}
	return s.session
}

// DiscardPlanning drops the current session without side effects.
func (s *Service) DiscardPlanning() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// CommitPlan applies the staged moves and records the day's setup. A commit
// that stops part way still persists the moves that were applied.
func (s *Service) CommitPlan(ctx context.Context) (planner.Result, Result, error) {
	session := s.Planning()

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := session.Commit()
	if !out.Committed() {
		return out, Result{}, err
	}
	return out, s.commit(ctx), err
}

// DayPlan is a whole daily setup made in one step.
type DayPlan struct {
	Time    planner.TimeBudget
	Energy  planner.EnergyLevel
	MoveIn  []string
	MoveOut []string
	Primary string
}

// PlanDay plans and commits today from p on a fresh session, all under the
// service lock. A rejected selection or staged move applies nothing, and the
// session never outlives the call, so nothing staged here can leak into a
// later plan. Any session in progress from Planning is dropped.
func (s *Service) PlanDay(ctx context.Context, p DayPlan) (planner.Result, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	session := planner.NewSession(s.horizons, s.setups, s.clock)
	if err := session.SelectTime(p.Time); err != nil {
		return planner.Result{}, Result{}, err
	}
	if err := session.SelectEnergy(p.Energy); err != nil {
		return planner.Result{}, Result{}, err
	}
	for _, id := range p.MoveOut {
		if err := session.StageMoveOut(id, ""); err != nil {
			return planner.Result{}, Result{}, fmt.Errorf("move out %s: %w", id, err)
		}
	}
	for _, id := range p.MoveIn {
		if err := session.StageMoveIn(id); err != nil {
			return planner.Result{}, Result{}, fmt.Errorf("move in %s: %w", id, err)
		}
	}
	if p.Primary != "" {
		if err := session.ChoosePrimary(p.Primary); err != nil {
			return planner.Result{}, Result{}, err
		}
	}

	out, err := session.Commit()
	if err != nil {
		s.log.Warn("plan commit incomplete", zap.Int("applied", len(out.Applied)), zap.Error(err))
	}
	if !out.Committed() {
		return out, Result{}, err
	}
	return out, s.commit(ctx), err
}

// SkipDay records that today is not being planned.
func (s *Service) SkipDay(ctx context.Context) (planner.Setup, Result, error) {
	session := s.Planning()

	s.mu.Lock()
	defer s.mu.Unlock()
	setup, err := session.Skip()
	if err != nil {
		return planner.Setup{}, Result{}, err
	}
	return setup, s.commit(ctx), nil
}

// Setups returns every recorded daily setup ordered by date.
func (s *Service) Setups() []planner.Setup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setups.All()
}
