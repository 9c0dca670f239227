package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/horizon"
)

// Action names a destructive operation awaiting confirmation.
type Action string

const (
	ActionRemoveTask    Action = "remove-task"
	ActionDeleteProject Action = "delete-project"
)

// PendingConfirmation describes a destructive action the caller must
// confirm with Service.Confirm before anything changes.
type PendingConfirmation struct {
	Action   Action `json:"action"`
	TargetID string `json:"targetId"`
	Prompt   string `json:"prompt"`
}

// Confirm runs a previously returned pending action.
func (s *Service) Confirm(ctx context.Context, p PendingConfirmation) (Result, error) {
	switch p.Action {
	case ActionRemoveTask:
		_, res, err := s.RemoveTask(ctx, p.TargetID, true)
		return res, err
	case ActionDeleteProject:
		return s.DeleteProject(ctx, p.TargetID, true)
	default:
		return Result{}, fmt.Errorf("app: unknown action %q", p.Action)
	}
}

// locate finds the horizon holding the task. Callers hold s.mu.
func (s *Service) locate(taskID string) (horizon.ID, error) {
	id, ok := s.horizons.FindHorizonOf(taskID)
	if !ok {
		return "", s.fail(&horizon.NotFoundError{TaskID: taskID}, zap.String("task_id", taskID))
	}
	return id, nil
}

// AddTask creates a task in the horizon. A project reference must exist.
func (s *Service) AddTask(ctx context.Context, id horizon.ID, text string, f horizon.Fields) (horizon.Task, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ProjectID != "" && s.projectIndex(f.ProjectID) < 0 {
		return horizon.Task{}, Result{}, s.fail(&NotFoundError{Kind: "project", ID: f.ProjectID})
	}
	t, err := s.horizons.AddTask(id, text, f)
	if err != nil {
		return horizon.Task{}, Result{}, s.fail(err, zap.String("horizon", string(id)))
	}
	return t, s.commit(ctx), nil
}

// MoveTask moves a task to another horizon. An empty from means wherever the
// task currently is.
func (s *Service) MoveTask(ctx context.Context, taskID string, from, to horizon.ID) (horizon.Task, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from == "" {
		var err error
		if from, err = s.locate(taskID); err != nil {
			return horizon.Task{}, Result{}, err
		}
	}
	t, err := s.horizons.MoveTask(taskID, from, to)
	if err != nil {
		return horizon.Task{}, Result{}, s.fail(err, zap.String("task_id", taskID), zap.String("horizon", string(from)))
	}
	return t, s.commit(ctx), nil
}

// ToggleComplete sets the completion state of the task wherever it is.
func (s *Service) ToggleComplete(ctx context.Context, taskID string, completed bool) (horizon.Task, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.locate(taskID)
	if err != nil {
		return horizon.Task{}, Result{}, err
	}
	t, err := s.horizons.ToggleComplete(taskID, id, completed)
	if err != nil {
		return horizon.Task{}, Result{}, s.fail(err, zap.String("task_id", taskID), zap.String("horizon", string(id)))
	}
	return t, s.commit(ctx), nil
}

// SetPrimary marks the task as its horizon's primary.
func (s *Service) SetPrimary(ctx context.Context, taskID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.locate(taskID)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.horizons.SetPrimary(taskID, id); err != nil {
		return Result{}, s.fail(err, zap.String("task_id", taskID))
	}
	return s.commit(ctx), nil
}

// ClearPrimary removes the primary flag in the horizon.
func (s *Service) ClearPrimary(ctx context.Context, id horizon.ID) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.horizons.ClearPrimary(id); err != nil {
		return Result{}, s.fail(err, zap.String("horizon", string(id)))
	}
	return s.commit(ctx), nil
}

// Rename replaces the task's text.
func (s *Service) Rename(ctx context.Context, taskID, text string) (horizon.Task, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.locate(taskID)
	if err != nil {
		return horizon.Task{}, Result{}, err
	}
	t, err := s.horizons.Rename(taskID, id, text)
	if err != nil {
		return horizon.Task{}, Result{}, s.fail(err, zap.String("task_id", taskID))
	}
	return t, s.commit(ctx), nil
}

// RemoveTask deletes a task. Without confirmed it changes nothing and returns
// a PendingConfirmation instead.
func (s *Service) RemoveTask(ctx context.Context, taskID string, confirmed bool) (horizon.Task, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.locate(taskID)
	if err != nil {
		return horizon.Task{}, Result{}, err
	}
	if !confirmed {
		t, _, _ := s.horizons.Snapshot().Locate(taskID)
		return t, Result{
			Snapshot: s.snapshotLocked(),
			Pending: &PendingConfirmation{
				Action:   ActionRemoveTask,
				TargetID: taskID,
				Prompt:   fmt.Sprintf("Delete %q from %s? This cannot be undone.", t.Text, id),
			},
		}, nil
	}
	t, err := s.horizons.RemoveTask(taskID, id)
	if err != nil {
		return horizon.Task{}, Result{}, s.fail(err, zap.String("task_id", taskID))
	}
	return t, s.commit(ctx), nil
}
