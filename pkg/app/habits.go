package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
)

var errEmptyName = errors.New("app: name must not be empty")

func (s *Service) habitIndex(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AddHabit starts tracking a new habit.
func (s *Service) AddHabit(ctx context.Context, name string) (document.Habit, Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return document.Habit{}, Result{}, errEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h := document.Habit{ID: s.ids.NewID(), Name: name, CreatedAt: s.clock.Now()}
	s.habits = append(s.habits, h)
	return h, s.commit(ctx), nil
}

// ArchiveHabit stops tracking a habit. Its check-ins stay in the ledger.
func (s *Service) ArchiveHabit(ctx context.Context, habitID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.habitIndex(habitID)
	if i < 0 {
		return Result{}, s.fail(&NotFoundError{Kind: "habit", ID: habitID}, zap.String("habit_id", habitID))
	}
	if !s.habits[i].Archived {
		now := s.clock.Now()
		s.habits[i].Archived = true
		s.habits[i].ArchivedAt = &now
	}
	return s.commit(ctx), nil
}

// CheckIn records the habit as done on date (today when empty). A second
// check-in for the same day changes nothing.
func (s *Service) CheckIn(ctx context.Context, habitID string, date datekey.Key) (ledger.CheckIn, Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitIndex(habitID) < 0 {
		return ledger.CheckIn{}, Result{}, s.fail(&NotFoundError{Kind: "habit", ID: habitID}, zap.String("habit_id", habitID))
	}
	if date == "" {
		date = s.clock.Today()
	}
	if !date.Valid() {
		return ledger.CheckIn{}, Result{}, fmt.Errorf("app: invalid date %q", date)
	}
	c, added := s.ledger.CheckIn(habitID, date, s.clock.Now())
	if !added {
		return c, Result{Snapshot: s.snapshotLocked()}, nil
	}
	return c, s.commit(ctx), nil
}

// Uncheck removes the check-in for date (today when empty).
func (s *Service) Uncheck(ctx context.Context, habitID string, date datekey.Key) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.habitIndex(habitID) < 0 {
		return Result{}, s.fail(&NotFoundError{Kind: "habit", ID: habitID}, zap.String("habit_id", habitID))
	}
	if date == "" {
		date = s.clock.Today()
	}
	if !s.ledger.Uncheck(habitID, date) {
		return Result{Snapshot: s.snapshotLocked()}, nil
	}
	return s.commit(ctx), nil
}

// Habits returns every habit, archived ones included.
func (s *Service) Habits() []document.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]document.Habit(nil), s.habits...)
}

// AddProject creates a project tasks can reference.
func (s *Service) AddProject(ctx context.Context, name string) (document.Project, Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return document.Project{}, Result{}, errEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := document.Project{ID: s.ids.NewID(), Name: name, CreatedAt: s.clock.Now()}
	s.projects = append(s.projects, p)
	return p, s.commit(ctx), nil
}

// CompleteProject marks the project done and records it in the ledger once.
func (s *Service) CompleteProject(ctx context.Context, projectID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(projectID)
	if i < 0 {
		return Result{}, s.fail(&NotFoundError{Kind: "project", ID: projectID}, zap.String("project_id", projectID))
	}
	if s.projects[i].Completed {
		return Result{Snapshot: s.snapshotLocked()}, nil
	}
	now := s.clock.Now()
	s.projects[i].Completed = true
	s.projects[i].CompletedAt = &now
	s.ledger.Append(ledger.Event{Kind: ledger.KindProjectCompleted, Timestamp: now, SubjectID: projectID})
	return s.commit(ctx), nil
}

// DeleteProject removes a project and clears the reference from its tasks;
// the tasks themselves stay. Without confirmed it only returns a
// PendingConfirmation.
func (s *Service) DeleteProject(ctx context.Context, projectID string, confirmed bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(projectID)
	if i < 0 {
		return Result{}, s.fail(&NotFoundError{Kind: "project", ID: projectID}, zap.String("project_id", projectID))
	}
	if !confirmed {
		linked := 0
		for _, h := range s.horizons.Snapshot().Horizons {
			for _, t := range h.Tasks {
				if t.ProjectID == projectID {
					linked++
				}
			}
		}
		return Result{
			Snapshot: s.snapshotLocked(),
			Pending: &PendingConfirmation{
				Action:   ActionDeleteProject,
				TargetID: projectID,
				Prompt:   fmt.Sprintf("Delete project %q? %d linked task(s) will be kept without a project.", s.projects[i].Name, linked),
			},
		}, nil
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	n := s.horizons.UnlinkProject(projectID)
	s.log.Debug("project deleted", zap.String("project_id", projectID), zap.Int("unlinked", n))
	return s.commit(ctx), nil
}

// WriteJournal adds a journal entry dated today.
func (s *Service) WriteJournal(ctx context.Context, text string) (journal.Entry, Result, error) {
	if strings.TrimSpace(text) == "" {
		return journal.Entry{}, Result{}, horizon.ErrEmptyText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := journal.New(s.ids.NewID(), text, s.clock.Now())
	s.journal = append(s.journal, e)
	s.ledger.Append(ledger.Event{Kind: ledger.KindJournalWritten, Timestamp: e.CreatedAt, SubjectID: e.ID})
	return e, s.commit(ctx), nil
}

// Journal returns the entries written on date, oldest first.
func (s *Service) Journal(date datekey.Key) []journal.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return journal.On(s.journal, date)
}
