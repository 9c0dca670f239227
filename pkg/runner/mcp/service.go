// Package mcp exposes the focus service over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/focus/pkg/app"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/planner"
	"tableflip.dev/focus/pkg/timeutil"
)

var errNoService = errors.New("mcp: service is not configured")

// Service adapts string tool arguments onto app.Service calls.
type Service struct {
	App *app.Service
}

// NewService wraps svc.
func NewService(svc *app.Service) *Service {
	return &Service{App: svc}
}

// MutationDTO is what every mutating tool returns.
type MutationDTO struct {
	Task     *horizon.Task            `json:"task,omitempty"`
	Warning  string                   `json:"warning,omitempty"`
	Pending  *app.PendingConfirmation `json:"pending,omitempty"`
	Snapshot app.Snapshot             `json:"snapshot"`
}

func mutation(t *horizon.Task, res app.Result) MutationDTO {
	dto := MutationDTO{Task: t, Pending: res.Pending, Snapshot: res.Snapshot}
	if res.Warning != nil {
		dto.Warning = res.Warning.Error()
	}
	return dto
}

func (s *Service) ready() error {
	if s == nil || s.App == nil {
		return errNoService
	}
	return nil
}

// Snapshot returns the current state.
func (s *Service) Snapshot(_ context.Context) (app.Snapshot, error) {
	if err := s.ready(); err != nil {
		return app.Snapshot{}, err
	}
	return s.App.Snapshot(), nil
}

// Horizon returns one horizon by name.
func (s *Service) Horizon(_ context.Context, name string) (horizon.Horizon, error) {
	if err := s.ready(); err != nil {
		return horizon.Horizon{}, err
	}
	id, err := horizon.ParseID(name)
	if err != nil {
		return horizon.Horizon{}, err
	}
	h, ok := s.App.Snapshot().Horizon(id)
	if !ok {
		return horizon.Horizon{}, fmt.Errorf("mcp: horizon %q not loaded", id)
	}
	return h, nil
}

// AddTask creates a task; an empty horizon means intake.
func (s *Service) AddTask(ctx context.Context, h, text, projectID string) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	id := horizon.Intake
	if strings.TrimSpace(h) != "" {
		var err error
		if id, err = horizon.ParseID(h); err != nil {
			return MutationDTO{}, err
		}
	}
	t, res, err := s.App.AddTask(ctx, id, text, horizon.Fields{ProjectID: projectID})
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(&t, res), nil
}

// MoveTask moves a task wherever it is to the target horizon.
func (s *Service) MoveTask(ctx context.Context, taskID, to string) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	target, err := horizon.ParseID(to)
	if err != nil {
		return MutationDTO{}, err
	}
	t, res, err := s.App.MoveTask(ctx, taskID, "", target)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(&t, res), nil
}

// SetCompleted completes or reopens a task.
func (s *Service) SetCompleted(ctx context.Context, taskID string, completed bool) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	t, res, err := s.App.ToggleComplete(ctx, taskID, completed)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(&t, res), nil
}

// SetPrimary marks the task as its horizon's primary.
func (s *Service) SetPrimary(ctx context.Context, taskID string) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	res, err := s.App.SetPrimary(ctx, taskID)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(nil, res), nil
}

// RemoveTask deletes a task. Unless confirm is set it only describes what
// would happen.
func (s *Service) RemoveTask(ctx context.Context, taskID string, confirm bool) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	t, res, err := s.App.RemoveTask(ctx, taskID, confirm)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(&t, res), nil
}

// PlanRequest is a whole daily setup in one call.
type PlanRequest struct {
	Time    string   `json:"time"`
	Energy  string   `json:"energy"`
	MoveIn  []string `json:"move_in"`
	MoveOut []string `json:"move_out"`
	Primary string   `json:"primary"`
}

// PlanDTO reports the committed plan.
type PlanDTO struct {
	Limit    int            `json:"limit"`
	Result   planner.Result `json:"result"`
	Warning  string         `json:"warning,omitempty"`
	Snapshot app.Snapshot   `json:"snapshot"`
}

// PlanDay runs a complete planning session and commits it. Nothing is
// applied when a selection or a staged move is rejected, and a failed call
// leaves nothing staged for the next one.
func (s *Service) PlanDay(ctx context.Context, req PlanRequest) (PlanDTO, error) {
	if err := s.ready(); err != nil {
		return PlanDTO{}, err
	}
	tb, err := planner.ParseTimeBudget(req.Time)
	if err != nil {
		return PlanDTO{}, err
	}
	el, err := planner.ParseEnergyLevel(req.Energy)
	if err != nil {
		return PlanDTO{}, err
	}

	out, res, err := s.App.PlanDay(ctx, app.DayPlan{
		Time:    tb,
		Energy:  el,
		MoveIn:  req.MoveIn,
		MoveOut: req.MoveOut,
		Primary: req.Primary,
	})
	var primaryErr *planner.PrimaryError
	if err != nil && !errors.As(err, &primaryErr) {
		return PlanDTO{}, err
	}
	dto := PlanDTO{Limit: out.Setup.ComputedLimit, Result: out, Snapshot: res.Snapshot}
	var warnings []string
	if primaryErr != nil {
		warnings = append(warnings, primaryErr.Error())
	}
	if res.Warning != nil {
		warnings = append(warnings, res.Warning.Error())
	}
	dto.Warning = strings.Join(warnings, "; ")
	return dto, nil
}

// SkipDay records that today is not being planned.
func (s *Service) SkipDay(ctx context.Context) (planner.Setup, error) {
	if err := s.ready(); err != nil {
		return planner.Setup{}, err
	}
	setup, _, err := s.App.SkipDay(ctx)
	return setup, err
}

// Candidates lists tasks that could move into daily.
func (s *Service) Candidates(ctx context.Context) ([]app.Candidate, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.Candidates(ctx, horizon.Daily, time.Time{})
}

// CheckIn marks a habit done; an empty date means today.
func (s *Service) CheckIn(ctx context.Context, habitID, date string) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	var key datekey.Key
	if strings.TrimSpace(date) != "" {
		var err error
		if key, err = datekey.Parse(date); err != nil {
			return MutationDTO{}, err
		}
	}
	_, res, err := s.App.CheckIn(ctx, habitID, key)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(nil, res), nil
}

// WriteJournal adds a journal entry for today.
func (s *Service) WriteJournal(ctx context.Context, text string) (MutationDTO, error) {
	if err := s.ready(); err != nil {
		return MutationDTO{}, err
	}
	_, res, err := s.App.WriteJournal(ctx, text)
	if err != nil {
		return MutationDTO{}, err
	}
	return mutation(nil, res), nil
}

// Stats summarises a period; an empty period means the week.
func (s *Service) Stats(_ context.Context, period string) (heatmap.Recap, error) {
	if err := s.ready(); err != nil {
		return heatmap.Recap{}, err
	}
	if strings.TrimSpace(period) == "" {
		period = string(heatmap.Week)
	}
	p, err := heatmap.ParsePeriod(period)
	if err != nil {
		return heatmap.Recap{}, err
	}
	return s.App.Recap(p)
}

// Streaks lists habit streaks.
func (s *Service) Streaks(_ context.Context) ([]app.StreakView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.Streaks(), nil
}

// Heatmap returns the year grid; zero means this year.
func (s *Service) Heatmap(_ context.Context, year int) (heatmap.Grid, error) {
	if err := s.ready(); err != nil {
		return heatmap.Grid{}, err
	}
	return s.App.Grid(year), nil
}

// Report lists ledger activity over a window such as "3d" or "1w".
func (s *Service) Report(ctx context.Context, last string) (app.ReportResult, error) {
	if err := s.ready(); err != nil {
		return app.ReportResult{}, err
	}
	w, err := timeutil.Resolve(last, s.App.Now())
	if err != nil {
		return app.ReportResult{}, err
	}
	return s.App.Report(ctx, w.Since, w.Until)
}
