package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/focus/pkg/clock"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/heatmap"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/ident"
	"tableflip.dev/focus/pkg/ledger"
	"tableflip.dev/focus/pkg/logging"
	"tableflip.dev/focus/pkg/planner"
	"tableflip.dev/focus/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	doc     document.Document
	saves   int
	saveErr error
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{doc: document.New(nil)}
}

func (m *memoryPersistence) Load(_ context.Context) (document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, nil
}

func (m *memoryPersistence) Save(_ context.Context, doc document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.doc = doc
	return nil
}

func (m *memoryPersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (m *memoryPersistence) Close() error { return nil }

func (m *memoryPersistence) saved() (document.Document, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, m.saves
}

var morning = time.Date(2026, time.October, 16, 8, 0, 0, 0, time.Local)

func newTestService(t *testing.T, opts ...Option) (*Service, *memoryPersistence, *clock.Fixed) {
	t.Helper()
	mp := newMemoryPersistence()
	c := clock.NewFixed(morning)
	opts = append([]Option{WithClock(c), WithIDs(&ident.Sequence{Prefix: "t"})}, opts...)
	svc, err := New(context.Background(), mp, opts...)
	require.NoError(t, err)
	return svc, mp, c
}

func TestNewRequiresPersistence(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestAddTaskPersists(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()

	task, res, err := svc.AddTask(ctx, horizon.Weekly, "write the quarterly memo", horizon.Fields{})
	require.NoError(t, err)
	assert.NoError(t, res.Warning)
	assert.Equal(t, "t-1", task.ID)

	doc, saves := mp.saved()
	assert.Equal(t, 1, saves)
	for _, h := range doc.Horizons {
		if h.ID == horizon.Weekly {
			require.Len(t, h.Tasks, 1)
			assert.Equal(t, "write the quarterly memo", h.Tasks[0].Text)
		}
	}
	weekly, ok := res.Snapshot.Horizon(horizon.Weekly)
	require.True(t, ok)
	assert.Len(t, weekly.Tasks, 1)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	obs, logs := logging.NewObserved()
	svc, mp, _ := newTestService(t, WithLogger(obs))
	mp.saveErr = errors.New("disk full")

	_, res, err := svc.AddTask(context.Background(), horizon.Intake, "buy stamps", horizon.Fields{})
	require.NoError(t, err)
	require.Error(t, res.Warning)
	assert.ErrorIs(t, res.Warning, store.ErrPersistence)

	intake, _ := svc.Snapshot().Horizon(horizon.Intake)
	assert.Len(t, intake.Tasks, 1, "the mutation stays in memory")
	assert.Equal(t, 1, logs.FilterMessage("save failed; keeping in-memory state").Len())
}

func TestCapacityRejectionDoesNotSave(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	for _, text := range []string{"one", "two", "three"} {
		_, _, err := svc.AddTask(ctx, horizon.Daily, text, horizon.Fields{})
		require.NoError(t, err)
	}
	_, before := mp.saved()

	_, _, err := svc.AddTask(ctx, horizon.Daily, "four", horizon.Fields{})
	require.Error(t, err)
	assert.ErrorIs(t, err, horizon.ErrCapacityExceeded)

	_, after := mp.saved()
	assert.Equal(t, before, after)
}

func TestLoweredCapacitySurvivesReloads(t *testing.T) {
	svc, mp, c := newTestService(t)
	ctx := context.Background()
	for _, text := range []string{"one", "two", "three"} {
		_, _, err := svc.AddTask(ctx, horizon.Daily, text, horizon.Fields{})
		require.NoError(t, err)
	}

	caps := horizon.DefaultCapacities()
	caps[horizon.Daily] = 2
	reopen := func() *Service {
		t.Helper()
		s, err := New(ctx, mp, WithClock(c), WithIDs(&ident.Sequence{Prefix: "r"}), WithCapacities(caps))
		require.NoError(t, err)
		return s
	}

	lowered := reopen()
	_, res, err := lowered.AddTask(ctx, horizon.Intake, "saved under the new limit", horizon.Fields{})
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	_, _, err = lowered.AddTask(ctx, horizon.Daily, "four", horizon.Fields{})
	assert.ErrorIs(t, err, horizon.ErrCapacityExceeded)

	again := reopen()
	daily, ok := again.Snapshot().Horizon(horizon.Daily)
	require.True(t, ok)
	assert.Equal(t, 2, daily.Capacity)
	assert.Equal(t, 3, daily.OpenCount())
}

func TestUnknownTaskIsNotFound(t *testing.T) {
	obs, logs := logging.NewObserved()
	svc, _, _ := newTestService(t, WithLogger(obs))

	_, _, err := svc.ToggleComplete(context.Background(), "missing", true)
	assert.ErrorIs(t, err, horizon.ErrNotFound)
	assert.Equal(t, 1, logs.FilterMessage("reference not found").Len())

	_, err = svc.ArchiveHabit(context.Background(), "missing")
	assert.ErrorIs(t, err, horizon.ErrNotFound)
}

func TestCompleteRecordsLedgerEvent(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	task, _, err := svc.AddTask(ctx, horizon.Daily, "ship it", horizon.Fields{})
	require.NoError(t, err)

	done, _, err := svc.ToggleComplete(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	// completing twice records one event
	_, _, err = svc.ToggleComplete(ctx, task.ID, true)
	require.NoError(t, err)

	doc, _ := mp.saved()
	require.Len(t, doc.Events, 1)
	assert.Equal(t, ledger.KindTaskCompleted, doc.Events[0].Kind)
	assert.Equal(t, horizon.Daily, doc.Events[0].Horizon)
}

func TestRemoveTaskNeedsConfirmation(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	task, _, err := svc.AddTask(ctx, horizon.Monthly, "old idea", horizon.Fields{})
	require.NoError(t, err)
	_, saves := mp.saved()

	_, res, err := svc.RemoveTask(ctx, task.ID, false)
	require.NoError(t, err)
	require.NotNil(t, res.Pending)
	assert.Equal(t, ActionRemoveTask, res.Pending.Action)
	assert.Contains(t, res.Pending.Prompt, "old idea")
	_, after := mp.saved()
	assert.Equal(t, saves, after, "nothing is saved before confirmation")

	res, err = svc.Confirm(ctx, *res.Pending)
	require.NoError(t, err)
	assert.Nil(t, res.Pending)
	monthly, _ := res.Snapshot.Horizon(horizon.Monthly)
	assert.Empty(t, monthly.Tasks)
}

func TestDeleteProjectUnlinksTasks(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p, _, err := svc.AddProject(ctx, "garden")
	require.NoError(t, err)
	task, _, err := svc.AddTask(ctx, horizon.Weekly, "plant bulbs", horizon.Fields{ProjectID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, task.ProjectID)

	_, _, err = svc.AddTask(ctx, horizon.Weekly, "orphan", horizon.Fields{ProjectID: "nope"})
	assert.ErrorIs(t, err, horizon.ErrNotFound)

	res, err := svc.DeleteProject(ctx, p.ID, false)
	require.NoError(t, err)
	require.NotNil(t, res.Pending)
	assert.Contains(t, res.Pending.Prompt, "1 linked task")

	res, err = svc.DeleteProject(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Projects)
	kept, _, ok := res.Snapshot.Locate(task.ID)
	require.True(t, ok)
	assert.Empty(t, kept.ProjectID)
}

func TestCompleteProjectOnce(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	p, _, err := svc.AddProject(ctx, "taxes")
	require.NoError(t, err)

	_, err = svc.CompleteProject(ctx, p.ID)
	require.NoError(t, err)
	_, err = svc.CompleteProject(ctx, p.ID)
	require.NoError(t, err)

	doc, _ := mp.saved()
	require.Len(t, doc.Events, 1)
	assert.Equal(t, ledger.KindProjectCompleted, doc.Events[0].Kind)
	require.Len(t, doc.Projects, 1)
	assert.True(t, doc.Projects[0].Completed)
}

func TestCheckInTwiceSavesOnce(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	h, _, err := svc.AddHabit(ctx, "stretch")
	require.NoError(t, err)
	_, base := mp.saved()

	_, res, err := svc.CheckIn(ctx, h.ID, "")
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Habits, 1)
	assert.True(t, res.Snapshot.Habits[0].CheckedToday)
	assert.Equal(t, 1, res.Snapshot.Habits[0].Streak)

	_, _, err = svc.CheckIn(ctx, h.ID, "2026-10-16")
	require.NoError(t, err)
	_, saves := mp.saved()
	assert.Equal(t, base+1, saves)

	_, _, err = svc.CheckIn(ctx, h.ID, "not-a-date")
	assert.Error(t, err)

	res, err = svc.Uncheck(ctx, h.ID, "")
	require.NoError(t, err)
	assert.False(t, res.Snapshot.Habits[0].CheckedToday)
}

func TestArchivedHabitsLeaveSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	h, _, err := svc.AddHabit(ctx, "floss")
	require.NoError(t, err)

	res, err := svc.ArchiveHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Snapshot.Habits)
	require.Len(t, svc.Habits(), 1)
	assert.True(t, svc.Habits()[0].Archived)
	assert.Empty(t, svc.Streaks())
}

func TestCommitPlan(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	a, _, err := svc.AddTask(ctx, horizon.Weekly, "draft talk", horizon.Fields{})
	require.NoError(t, err)
	b, _, err := svc.AddTask(ctx, horizon.Weekly, "book flights", horizon.Fields{})
	require.NoError(t, err)

	session := svc.Planning()
	require.NoError(t, session.SelectTime(planner.TimeShort))
	require.NoError(t, session.SelectEnergy(planner.EnergyMedium))
	limit, ok := session.CurrentLimit()
	require.True(t, ok)
	assert.Equal(t, 1, limit)

	require.NoError(t, session.StageMoveIn(a.ID))
	assert.ErrorIs(t, session.StageMoveIn(b.ID), horizon.ErrCapacityExceeded)
	require.NoError(t, session.ChoosePrimary(a.ID))

	out, res, err := svc.CommitPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.MovedIn)
	daily, _ := res.Snapshot.Horizon(horizon.Daily)
	require.Len(t, daily.Tasks, 1)
	assert.True(t, daily.Tasks[0].IsPrimary)
	assert.Equal(t, horizon.Weekly, daily.Tasks[0].MovedFrom)
	require.NotNil(t, res.Snapshot.Setup)
	assert.Equal(t, 1, res.Snapshot.Setup.ComputedLimit)

	doc, _ := mp.saved()
	require.Len(t, doc.Setups, 1)
	assert.Equal(t, a.ID, doc.Setups[0].PrimaryTaskID)

	// a committed session is replaced by a fresh one
	assert.NotSame(t, session, svc.Planning())
}

func TestPlanDayFailureLeavesNothingStaged(t *testing.T) {
	caps := horizon.DefaultCapacities()
	caps[horizon.Weekly] = 1
	svc, mp, _ := newTestService(t, WithCapacities(caps))
	ctx := context.Background()
	w, _, err := svc.AddTask(ctx, horizon.Weekly, "plan offsite", horizon.Fields{})
	require.NoError(t, err)
	d, _, err := svc.AddTask(ctx, horizon.Daily, "stretch", horizon.Fields{})
	require.NoError(t, err)
	q, _, err := svc.AddTask(ctx, horizon.Quarterly, "hire", horizon.Fields{})
	require.NoError(t, err)
	_, before := mp.saved()

	_, _, err = svc.PlanDay(ctx, DayPlan{
		Time:    planner.TimeLong,
		Energy:  planner.EnergyHigh,
		MoveOut: []string{d.ID},
		MoveIn:  []string{q.ID},
	})
	var commitErr *planner.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Empty(t, commitErr.Applied)
	_, after := mp.saved()
	assert.Equal(t, before, after, "nothing applied, nothing saved")

	in, out := svc.Planning().Pending()
	assert.Empty(t, in)
	assert.Empty(t, out)

	_, _, err = svc.ToggleComplete(ctx, w.ID, true)
	require.NoError(t, err)
	res, _, err := svc.PlanDay(ctx, DayPlan{Time: planner.TimeLong, Energy: planner.EnergyHigh})
	require.NoError(t, err)
	assert.Zero(t, res.MovedIn)
	assert.Zero(t, res.MovedOut)
	assert.Equal(t, 3, res.Setup.ComputedLimit)

	snap := svc.Snapshot()
	_, h, _ := snap.Locate(d.ID)
	assert.Equal(t, horizon.Daily, h)
	_, h, _ = snap.Locate(q.ID)
	assert.Equal(t, horizon.Quarterly, h)
}

func TestSkipDay(t *testing.T) {
	svc, mp, _ := newTestService(t)
	setup, _, err := svc.SkipDay(context.Background())
	require.NoError(t, err)
	assert.True(t, setup.Skipped)
	assert.Equal(t, svc.Snapshot().Today, setup.Date)

	doc, _ := mp.saved()
	require.Len(t, doc.Setups, 1)
	assert.True(t, doc.Setups[0].Skipped)
}

func TestPlanningResetsOnNewDay(t *testing.T) {
	svc, _, c := newTestService(t)
	first := svc.Planning()
	c.Advance(24 * time.Hour)
	second := svc.Planning()
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Date().AddDays(1), second.Date())
}

func TestSubscribeReceivesLatest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	ch, cancel := svc.Subscribe()
	defer cancel()

	_, _, err := svc.AddTask(ctx, horizon.Intake, "first", horizon.Fields{})
	require.NoError(t, err)
	_, _, err = svc.AddTask(ctx, horizon.Intake, "second", horizon.Fields{})
	require.NoError(t, err)

	snap := <-ch
	intake, _ := snap.Horizon(horizon.Intake)
	assert.Len(t, intake.Tasks, 2, "only the latest snapshot is kept")

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestReloadAdoptsExternalChanges(t *testing.T) {
	svc, mp, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.AddTask(ctx, horizon.Intake, "local", horizon.Fields{})
	require.NoError(t, err)

	mp.mu.Lock()
	mp.doc.Habits = append(mp.doc.Habits, document.Habit{ID: "h-ext", Name: "walk", CreatedAt: morning})
	mp.mu.Unlock()

	snap, err := svc.Reload(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Habits, 1)
	assert.Equal(t, "walk", snap.Habits[0].Name)
}

func TestCandidatesMostRecentFirst(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()
	older, _, err := svc.AddTask(ctx, horizon.Monthly, "older", horizon.Fields{})
	require.NoError(t, err)
	c.Advance(time.Hour)
	newer, _, err := svc.AddTask(ctx, horizon.Weekly, "newer", horizon.Fields{})
	require.NoError(t, err)
	_, _, err = svc.AddTask(ctx, horizon.Daily, "already today", horizon.Fields{})
	require.NoError(t, err)

	got, err := svc.Candidates(ctx, horizon.Daily, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].Task.ID)
	assert.Equal(t, older.ID, got[1].Task.ID)

	got, err = svc.Candidates(ctx, horizon.Daily, morning.Add(30*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newer.ID, got[0].Task.ID)
}

func TestReportGroupsEvents(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	task, _, err := svc.AddTask(ctx, horizon.Daily, "file expenses", horizon.Fields{})
	require.NoError(t, err)
	_, _, err = svc.ToggleComplete(ctx, task.ID, true)
	require.NoError(t, err)
	h, _, err := svc.AddHabit(ctx, "read")
	require.NoError(t, err)
	_, _, err = svc.CheckIn(ctx, h.ID, "")
	require.NoError(t, err)
	_, _, err = svc.WriteJournal(ctx, "good day\nmore detail")
	require.NoError(t, err)

	report, err := svc.Report(ctx, morning.Add(-time.Hour), morning.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	require.Len(t, report.Sections, 3)
	assert.Equal(t, ledger.KindTaskCompleted, report.Sections[0].Kind)
	assert.Equal(t, "task-completed (daily)", report.Sections[0].Title())
	assert.Equal(t, "file expenses", report.Sections[0].Items[0].Subject)
	assert.Equal(t, "read", report.Sections[1].Items[0].Subject)
	assert.Equal(t, "good day", report.Sections[2].Items[0].Subject)
}

func TestAnalyticsReadTheLedger(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	h, _, err := svc.AddHabit(ctx, "run")
	require.NoError(t, err)
	for _, d := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		_, _, err := svc.CheckIn(ctx, h.ID, datekey.Key(d))
		require.NoError(t, err)
	}

	streaks := svc.Streaks()
	require.Len(t, streaks, 1)
	assert.Equal(t, 3, streaks[0].Current)
	assert.Equal(t, 3, streaks[0].Longest)

	stats, err := svc.Stats(heatmap.Week)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.HabitDays)
	assert.Equal(t, 3, stats.CurrentStreak)

	grid := svc.Grid(0)
	assert.Equal(t, 2026, grid.Year)
	cell, ok := grid.Cell("2026-10-16")
	require.True(t, ok)
	assert.True(t, cell.IsToday)
	assert.Equal(t, heatmap.WeightCheckIn, cell.RawCount)
}
