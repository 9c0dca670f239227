package horizon

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/focus/pkg/clock"
	"tableflip.dev/focus/pkg/ident"
)

// Recorder receives completion events. The activity ledger implements it.
type Recorder interface {
	RecordCompletion(taskID string, h ID, at time.Time)
}

// Fields carries the optional attributes of a new task.
type Fields struct {
	ProjectID string
	Primary   bool
}

// Store owns every horizon and the tasks inside them. All mutations are
// serialised behind a single mutex so the check-then-mutate capacity logic
// cannot race, and every capacity check lives here so callers cannot bypass
// the invariant.
type Store struct {
	mu       sync.Mutex
	clock    clock.Clock
	ids      ident.Generator
	recorder Recorder
	horizons map[ID]*Horizon
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source (defaults to the wall clock).
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDs overrides the id generator (defaults to UUIDs).
func WithIDs(g ident.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithRecorder wires the sink notified of task completions.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// New creates a store with every canonical horizon empty.
func New(caps Capacities, opts ...Option) *Store {
	if caps == nil {
		caps = DefaultCapacities()
	}
	s := newStore(opts...)
	for _, id := range All() {
		s.horizons[id] = &Horizon{ID: id, Capacity: caps.Of(id), Tasks: []Task{}}
	}
	return s
}

// Restore rebuilds a store from previously persisted horizons. The input is
// validated first and rejected if it breaks any invariant. Canonical horizons
// missing from the input are created empty. When caps is non-nil its limits
// replace the persisted ones; a lowered limit never evicts tasks, it only
// blocks new open tasks until the horizon drains below it.
func Restore(horizons []Horizon, caps Capacities, opts ...Option) (*Store, error) {
	if err := Validate(horizons); err != nil {
		return nil, err
	}
	s := New(caps, opts...)
	for _, h := range horizons {
		cp := h.clone()
		if caps != nil {
			cp.Capacity = caps.Of(h.ID)
		}
		s.horizons[h.ID] = &cp
	}
	return s, nil
}

func newStore(opts ...Option) *Store {
	s := &Store{
		clock:    clock.System{},
		ids:      ident.UUID{},
		horizons: make(map[ID]*Horizon, len(All())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the invariants over a set of horizons: known and unique
// horizon ids, unique non-empty task ids, at most one primary per horizon,
// and completedAt set iff completed. An open count above capacity is
// accepted: lowering a limit leaves a horizon over it until it drains, and
// the store only enforces capacity when a task is admitted.
func Validate(horizons []Horizon) error {
	seenHorizon := make(map[ID]bool, len(horizons))
	seenTask := make(map[string]ID)
	var errs []error
	for _, h := range horizons {
		if !h.ID.Known() {
			errs = append(errs, fmt.Errorf("horizon: unknown horizon %q", h.ID))
			continue
		}
		if seenHorizon[h.ID] {
			errs = append(errs, fmt.Errorf("horizon: %s listed twice", h.ID))
			continue
		}
		seenHorizon[h.ID] = true
		primaries := 0
		for _, t := range h.Tasks {
			if t.ID == "" {
				errs = append(errs, fmt.Errorf("horizon: task without id in %s", h.ID))
				continue
			}
			if other, dup := seenTask[t.ID]; dup {
				errs = append(errs, fmt.Errorf("horizon: task %q in both %s and %s", t.ID, other, h.ID))
			}
			seenTask[t.ID] = h.ID
			if strings.TrimSpace(t.Text) == "" {
				errs = append(errs, fmt.Errorf("horizon: task %q has no text", t.ID))
			}
			if t.Completed != (t.CompletedAt != nil) {
				errs = append(errs, fmt.Errorf("horizon: task %q completedAt does not match completed", t.ID))
			}
			if t.IsPrimary {
				primaries++
			}
		}
		if primaries > 1 {
			errs = append(errs, fmt.Errorf("horizon: %s has %d primary tasks", h.ID, primaries))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) lookup(id ID) (*Horizon, error) {
	h, ok := s.horizons[id]
	if !ok {
		return nil, &NotFoundError{Horizon: id}
	}
	return h, nil
}

func (s *Store) locate(h *Horizon, taskID string) (int, error) {
	i := h.index(taskID)
	if i < 0 {
		return -1, &NotFoundError{TaskID: taskID, Horizon: h.ID}
	}
	return i, nil
}

// admit fails when one more open task would push h over its capacity.
func admit(h *Horizon) error {
	if !h.Bounded() {
		return nil
	}
	if open := h.OpenCount() + 1; open > h.Capacity {
		return &CapacityError{Horizon: h.ID, Limit: h.Capacity, Open: open}
	}
	return nil
}

// AddTask appends a new open task to the horizon.
func (s *Store) AddTask(id ID, text string, f Fields) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return Task{}, err
	}
	if err := admit(h); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        s.ids.NewID(),
		Text:      text,
		CreatedAt: s.clock.Now(),
		ProjectID: f.ProjectID,
	}
	if f.Primary {
		clearPrimary(h)
		t.IsPrimary = true
	}
	h.Tasks = append(h.Tasks, t)
	return t.clone(), nil
}

// MoveTask relocates a task from one horizon to the end of another and
// records where it came from. Either both horizons change or neither does.
// The primary flag does not travel with the task.
func (s *Store) MoveTask(taskID string, from, to ID) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.lookup(from)
	if err != nil {
		return Task{}, err
	}
	dst, err := s.lookup(to)
	if err != nil {
		return Task{}, err
	}
	i, err := s.locate(src, taskID)
	if err != nil {
		return Task{}, err
	}
	if from == to {
		return src.Tasks[i].clone(), nil
	}
	if src.Tasks[i].Open() {
		if err := admit(dst); err != nil {
			return Task{}, err
		}
	}

	moved := src.Tasks[i].clone()
	moved.recordMove(from, to, s.clock.Now())
	moved.IsPrimary = false

	src.Tasks = append(src.Tasks[:i], src.Tasks[i+1:]...)
	dst.Tasks = append(dst.Tasks, moved)
	return moved.clone(), nil
}

// ToggleComplete sets the completion state. Completing stamps completedAt
// and notifies the recorder; reopening clears completedAt but leaves recorded
// history alone. Setting the state the task already has is a no-op: the
// original completedAt is kept and nothing is recorded twice. Reopening a task
// makes it count against capacity again, so it is rejected when the horizon
// is full.
func (s *Store) ToggleComplete(taskID string, id ID, completed bool) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return Task{}, err
	}
	i, err := s.locate(h, taskID)
	if err != nil {
		return Task{}, err
	}
	t := &h.Tasks[i]
	if t.Completed == completed {
		return t.clone(), nil
	}
	if completed {
		now := s.clock.Now()
		t.Completed = true
		t.CompletedAt = &now
		if s.recorder != nil {
			s.recorder.RecordCompletion(t.ID, id, now)
		}
		return t.clone(), nil
	}
	if err := admit(h); err != nil {
		return Task{}, err
	}
	t.Completed = false
	t.CompletedAt = nil
	return t.clone(), nil
}

// SetPrimary marks the task as the horizon's primary, clearing any other.
func (s *Store) SetPrimary(taskID string, id ID) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return Task{}, err
	}
	i, err := s.locate(h, taskID)
	if err != nil {
		return Task{}, err
	}
	clearPrimary(h)
	h.Tasks[i].IsPrimary = true
	return h.Tasks[i].clone(), nil
}

// ClearPrimary removes the primary flag from every task in the horizon.
func (s *Store) ClearPrimary(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return err
	}
	clearPrimary(h)
	return nil
}

func clearPrimary(h *Horizon) {
	for i := range h.Tasks {
		h.Tasks[i].IsPrimary = false
	}
}

// Rename replaces the task's description.
func (s *Store) Rename(taskID string, id ID, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return Task{}, err
	}
	i, err := s.locate(h, taskID)
	if err != nil {
		return Task{}, err
	}
	h.Tasks[i].Text = text
	return h.Tasks[i].clone(), nil
}

// RemoveTask permanently deletes the task from the horizon.
func (s *Store) RemoveTask(taskID string, id ID) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return Task{}, err
	}
	i, err := s.locate(h, taskID)
	if err != nil {
		return Task{}, err
	}
	removed := h.Tasks[i]
	h.Tasks = append(h.Tasks[:i], h.Tasks[i+1:]...)
	return removed, nil
}

// UnlinkProject clears the project reference on every task pointing at
// projectID and returns how many were touched. Tasks are never deleted.
func (s *Store) UnlinkProject(projectID string) int {
	if projectID == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, id := range All() {
		h := s.horizons[id]
		for i := range h.Tasks {
			if h.Tasks[i].ProjectID == projectID {
				h.Tasks[i].ProjectID = ""
				n++
			}
		}
	}
	return n
}

// FindHorizonOf returns the horizon currently holding the task.
func (s *Store) FindHorizonOf(taskID string) (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range All() {
		if s.horizons[id].index(taskID) >= 0 {
			return id, true
		}
	}
	return "", false
}

// Snapshot returns a deep copy of every horizon, coarsest first.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Horizons: make([]Horizon, 0, len(s.horizons))}
	for _, id := range All() {
		snap.Horizons = append(snap.Horizons, s.horizons[id].clone())
	}
	return snap
}

// Snapshot is a read-only view of the store at one point in time.
type Snapshot struct {
	Horizons []Horizon `json:"horizons"`
}

// Horizon returns the horizon with the given id.
func (s Snapshot) Horizon(id ID) (Horizon, bool) {
	for _, h := range s.Horizons {
		if h.ID == id {
			return h, true
		}
	}
	return Horizon{}, false
}

// Locate finds a task and the horizon holding it.
func (s Snapshot) Locate(taskID string) (Task, ID, bool) {
	for _, h := range s.Horizons {
		if t, ok := h.Task(taskID); ok {
			return t, h.ID, true
		}
	}
	return Task{}, "", false
}

// OpenCount returns the open task count of the horizon (0 when unknown).
func (s Snapshot) OpenCount(id ID) int {
	h, _ := s.Horizon(id)
	return h.OpenCount()
}
