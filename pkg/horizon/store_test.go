package horizon

import (
	"errors"
	"testing"
	"time"

	"tableflip.dev/focus/pkg/clock"
	"tableflip.dev/focus/pkg/ident"
)

type completion struct {
	taskID  string
	horizon ID
	at      time.Time
}

type recorder struct {
	completions []completion
}

func (r *recorder) RecordCompletion(taskID string, h ID, at time.Time) {
	r.completions = append(r.completions, completion{taskID: taskID, horizon: h, at: at})
}

var epoch = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local)

func newTestStore(t *testing.T, caps Capacities) (*Store, *clock.Fixed, *recorder) {
	t.Helper()
	clk := clock.NewFixed(epoch)
	rec := &recorder{}
	s := New(caps, WithClock(clk), WithIDs(&ident.Sequence{Prefix: "task"}), WithRecorder(rec))
	return s, clk, rec
}

func mustAdd(t *testing.T, s *Store, h ID, text string) Task {
	t.Helper()
	task, err := s.AddTask(h, text, Fields{})
	if err != nil {
		t.Fatalf("add %q to %s: %v", text, h, err)
	}
	return task
}

func TestAddTaskRespectsCapacity(t *testing.T) {
	s, _, _ := newTestStore(t, Capacities{Daily: 2, Weekly: 5})
	mustAdd(t, s, Daily, "one")
	mustAdd(t, s, Daily, "two")

	_, err := s.AddTask(Daily, "three", Fields{})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CapacityError, got %T", err)
	}
	if capErr.Horizon != Daily || capErr.Limit != 2 {
		t.Fatalf("unexpected error detail: %+v", capErr)
	}
	if got := s.Snapshot().OpenCount(Daily); got != 2 {
		t.Fatalf("rejected add must not mutate, got %d open", got)
	}
}

func TestAddTaskRejectsEmptyText(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	if _, err := s.AddTask(Intake, "   ", Fields{}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestIntakeIsUnbounded(t *testing.T) {
	s, _, _ := newTestStore(t, Capacities{Intake: 1})
	for i := 0; i < 50; i++ {
		mustAdd(t, s, Intake, "idea")
	}
	if got := s.Snapshot().OpenCount(Intake); got != 50 {
		t.Fatalf("expected 50 intake tasks, got %d", got)
	}
}

func TestCompletedTasksAreCapacityExempt(t *testing.T) {
	s, _, _ := newTestStore(t, Capacities{Daily: 1, Weekly: 3})
	first := mustAdd(t, s, Daily, "first")
	if _, err := s.ToggleComplete(first.ID, Daily, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	mustAdd(t, s, Daily, "second")

	week := mustAdd(t, s, Weekly, "from the week")
	if _, err := s.MoveTask(week.ID, Weekly, Daily); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected daily to be full, got %v", err)
	}
	if _, err := s.ToggleComplete(week.ID, Weekly, true); err != nil {
		t.Fatalf("complete weekly: %v", err)
	}
	if _, err := s.MoveTask(week.ID, Weekly, Daily); err != nil {
		t.Fatalf("completed task should move into a full horizon: %v", err)
	}
	daily, _ := s.Snapshot().Horizon(Daily)
	if len(daily.Tasks) != 3 || daily.OpenCount() != 1 {
		t.Fatalf("expected 3 entries with 1 open, got %d/%d", len(daily.Tasks), daily.OpenCount())
	}
}

func TestMoveTaskRecordsProvenance(t *testing.T) {
	s, clk, _ := newTestStore(t, nil)
	task := mustAdd(t, s, Weekly, "write report")
	clk.Advance(time.Hour)

	moved, err := s.MoveTask(task.ID, Weekly, Daily)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.MovedFrom != Weekly {
		t.Fatalf("expected movedFrom weekly, got %q", moved.MovedFrom)
	}
	if moved.MovedAt == nil || !moved.MovedAt.Equal(epoch.Add(time.Hour)) {
		t.Fatalf("unexpected movedAt %v", moved.MovedAt)
	}
	if moved.ID != task.ID || !moved.CreatedAt.Equal(task.CreatedAt) {
		t.Fatal("move must keep id and createdAt")
	}
	if h, ok := s.FindHorizonOf(task.ID); !ok || h != Daily {
		t.Fatalf("expected task in daily, got %q", h)
	}
	weekly, _ := s.Snapshot().Horizon(Weekly)
	if len(weekly.Tasks) != 0 {
		t.Fatalf("expected weekly empty after move, got %d", len(weekly.Tasks))
	}
}

func TestMoveRoundTripRestoresMovedFrom(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	task := mustAdd(t, s, Monthly, "plan trip")
	if _, err := s.MoveTask(task.ID, Monthly, Weekly); err != nil {
		t.Fatalf("monthly -> weekly: %v", err)
	}
	before, _, _ := s.Snapshot().Locate(task.ID)

	if _, err := s.MoveTask(task.ID, Weekly, Daily); err != nil {
		t.Fatalf("weekly -> daily: %v", err)
	}
	back, err := s.MoveTask(task.ID, Daily, Weekly)
	if err != nil {
		t.Fatalf("daily -> weekly: %v", err)
	}
	if back.MovedFrom != before.MovedFrom {
		t.Fatalf("expected movedFrom %q restored, got %q", before.MovedFrom, back.MovedFrom)
	}
	if back.ID != before.ID || !back.CreatedAt.Equal(before.CreatedAt) {
		t.Fatal("round trip must keep id and createdAt")
	}
}

func TestMoveFailureLeavesBothHorizonsUntouched(t *testing.T) {
	s, _, _ := newTestStore(t, Capacities{Daily: 1, Weekly: 3})
	mustAdd(t, s, Daily, "busy")
	task := mustAdd(t, s, Weekly, "waiting")
	before := s.Snapshot()

	if _, err := s.MoveTask(task.ID, Weekly, Daily); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	after := s.Snapshot()
	for _, id := range []ID{Weekly, Daily} {
		b, _ := before.Horizon(id)
		a, _ := after.Horizon(id)
		if len(a.Tasks) != len(b.Tasks) {
			t.Fatalf("%s changed after failed move: %d -> %d", id, len(b.Tasks), len(a.Tasks))
		}
	}
	if got, _, _ := after.Locate(task.ID); got.MovedFrom != "" || got.MovedAt != nil {
		t.Fatal("failed move must not stamp provenance")
	}
}

func TestMoveTaskNotFound(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	task := mustAdd(t, s, Weekly, "here")
	_, err := s.MoveTask(task.ID, Monthly, Daily)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.TaskID != task.ID || nf.Horizon != Monthly {
		t.Fatalf("unexpected error detail: %v", err)
	}
	if _, err := s.MoveTask(task.ID, Weekly, ID("someday")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown horizon, got %v", err)
	}
}

func TestMovePrimaryDropsFlag(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	task, err := s.AddTask(Daily, "main thing", Fields{Primary: true})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	moved, err := s.MoveTask(task.ID, Daily, Weekly)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.IsPrimary {
		t.Fatal("primary flag should not follow the task")
	}
}

func TestToggleCompleteRecordsLedgerOnce(t *testing.T) {
	s, clk, rec := newTestStore(t, nil)
	task := mustAdd(t, s, Daily, "ship it")
	clk.Advance(time.Minute)

	first, err := s.ToggleComplete(task.ID, Daily, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	clk.Advance(time.Minute)
	second, err := s.ToggleComplete(task.ID, Daily, true)
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if !first.CompletedAt.Equal(*second.CompletedAt) {
		t.Fatalf("second completion must be a no-op, %v != %v", first.CompletedAt, second.CompletedAt)
	}
	if len(rec.completions) != 1 {
		t.Fatalf("expected 1 recorded completion, got %d", len(rec.completions))
	}
	if rec.completions[0].horizon != Daily || rec.completions[0].taskID != task.ID {
		t.Fatalf("unexpected completion %+v", rec.completions[0])
	}

	reopened, err := s.ToggleComplete(task.ID, Daily, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Completed || reopened.CompletedAt != nil {
		t.Fatal("reopen must clear completion")
	}
	if len(rec.completions) != 1 {
		t.Fatal("reopen must not touch recorded history")
	}
}

func TestReopenRespectsCapacity(t *testing.T) {
	s, _, _ := newTestStore(t, Capacities{Daily: 1})
	done := mustAdd(t, s, Daily, "done")
	if _, err := s.ToggleComplete(done.ID, Daily, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	mustAdd(t, s, Daily, "open")
	if _, err := s.ToggleComplete(done.ID, Daily, false); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity error on reopen, got %v", err)
	}
}

func TestSetPrimaryKeepsSinglePrimary(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	a := mustAdd(t, s, Daily, "a")
	b := mustAdd(t, s, Daily, "b")

	if _, err := s.SetPrimary(a.ID, Daily); err != nil {
		t.Fatalf("set primary a: %v", err)
	}
	if _, err := s.SetPrimary(b.ID, Daily); err != nil {
		t.Fatalf("set primary b: %v", err)
	}
	daily, _ := s.Snapshot().Horizon(Daily)
	primary, ok := daily.Primary()
	if !ok || primary.ID != b.ID {
		t.Fatalf("expected b primary, got %+v", primary)
	}
	count := 0
	for _, task := range daily.Tasks {
		if task.IsPrimary {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one primary, got %d", count)
	}

	if err := s.ClearPrimary(Daily); err != nil {
		t.Fatalf("clear: %v", err)
	}
	daily, _ = s.Snapshot().Horizon(Daily)
	if _, ok := daily.Primary(); ok {
		t.Fatal("expected no primary after clear")
	}
}

func TestRemoveTask(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	task := mustAdd(t, s, Weekly, "obsolete")
	if _, err := s.RemoveTask(task.ID, Weekly); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.FindHorizonOf(task.ID); ok {
		t.Fatal("task still present after removal")
	}
	if _, err := s.RemoveTask(task.ID, Weekly); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}

func TestUnlinkProjectKeepsTasks(t *testing.T) {
	s, _, _ := newTestStore(t, nil)
	linked, err := s.AddTask(Weekly, "linked", Fields{ProjectID: "proj-1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	mustAdd(t, s, Weekly, "unlinked")
	if n := s.UnlinkProject("proj-1"); n != 1 {
		t.Fatalf("expected 1 unlinked, got %d", n)
	}
	got, _, ok := s.Snapshot().Locate(linked.ID)
	if !ok || got.ProjectID != "" {
		t.Fatalf("expected task kept with cleared project, got %+v", got)
	}
}

func TestCapacityInvariantUnderRandomisedSequence(t *testing.T) {
	caps := Capacities{Quarterly: 2, Monthly: 2, Weekly: 3, Daily: 1}
	s, _, _ := newTestStore(t, caps)
	horizons := All()
	var ids []string
	for i := 0; i < 40; i++ {
		h := horizons[i%len(horizons)]
		if task, err := s.AddTask(h, "t", Fields{}); err == nil {
			ids = append(ids, task.ID)
		} else if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("unexpected add error: %v", err)
		}
		if len(ids) > 0 {
			id := ids[(i*7)%len(ids)]
			from, _ := s.FindHorizonOf(id)
			to := horizons[(i*3+1)%len(horizons)]
			if _, err := s.MoveTask(id, from, to); err != nil && !errors.Is(err, ErrCapacityExceeded) {
				t.Fatalf("unexpected move error: %v", err)
			}
		}
		for _, h := range s.Snapshot().Horizons {
			if h.Bounded() && h.OpenCount() > h.Capacity {
				t.Fatalf("step %d: %s holds %d open tasks over capacity %d", i, h.ID, h.OpenCount(), h.Capacity)
			}
		}
	}
}

func TestRestoreValidates(t *testing.T) {
	now := epoch
	bad := []Horizon{{
		ID:       Daily,
		Capacity: 1,
		Tasks: []Task{
			{ID: "a", Text: "a", CreatedAt: now, IsPrimary: true},
			{ID: "b", Text: "b", CreatedAt: now, IsPrimary: true},
		},
	}}
	if _, err := Restore(bad, nil); err == nil {
		t.Fatal("expected validation error")
	}

	good := []Horizon{{
		ID:       Weekly,
		Capacity: 2,
		Tasks:    []Task{{ID: "a", Text: "a", CreatedAt: now}},
	}}
	s, err := Restore(good, nil)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if h, ok := s.FindHorizonOf("a"); !ok || h != Weekly {
		t.Fatalf("expected restored task in weekly, got %q", h)
	}
	if len(s.Snapshot().Horizons) != len(All()) {
		t.Fatal("restore should create missing canonical horizons")
	}
}

func TestRestoreUnderLoweredLimit(t *testing.T) {
	persisted := []Horizon{{
		ID:       Daily,
		Capacity: 3,
		Tasks: []Task{
			{ID: "a", Text: "a", CreatedAt: epoch},
			{ID: "b", Text: "b", CreatedAt: epoch},
			{ID: "c", Text: "c", CreatedAt: epoch},
		},
	}}
	caps := DefaultCapacities()
	caps[Daily] = 2

	s, err := Restore(persisted, caps, WithClock(clock.NewFixed(epoch)), WithIDs(&ident.Sequence{Prefix: "task"}))
	if err != nil {
		t.Fatalf("restore under lowered limit: %v", err)
	}
	if _, err := s.AddTask(Daily, "d", Fields{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity error while over the limit, got %v", err)
	}

	// a second restore of what the store now holds must succeed too
	again, err := Restore(s.Snapshot().Horizons, caps)
	if err != nil {
		t.Fatalf("restore of over-limit snapshot: %v", err)
	}
	h, _ := again.Snapshot().Horizon(Daily)
	if h.Capacity != 2 || h.OpenCount() != 3 {
		t.Fatalf("daily = %d open / cap %d, want 3 / 2", h.OpenCount(), h.Capacity)
	}

	if _, err := again.ToggleComplete("a", Daily, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := again.AddTask(Daily, "d", Fields{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("still at the limit after one completion, got %v", err)
	}
	if _, err := again.ToggleComplete("b", Daily, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := again.AddTask(Daily, "d", Fields{}); err != nil {
		t.Fatalf("drained below the limit, add should succeed: %v", err)
	}
}
