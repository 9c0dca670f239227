// Package app wires the horizon store, the activity ledger, the planner and
// persistence into one Service shared by the CLI and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/focus/pkg/clock"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/ident"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
	"tableflip.dev/focus/pkg/planner"
	"tableflip.dev/focus/pkg/store"
	"tableflip.dev/focus/pkg/streak"
)

var errNoPersistence = errors.New("app: no persistence configured")

// Service owns the in-memory state. Every mutation runs under one lock:
// apply in memory, save, publish the new snapshot. A failed save never rolls
// the mutation back; it comes back as Result.Warning.
type Service struct {
	persistence store.Persistence
	clock       clock.Clock
	ids         ident.Generator
	log         *zap.Logger
	caps        horizon.Capacities

	mu       sync.Mutex
	horizons *horizon.Store
	ledger   *ledger.Ledger
	setups   *planner.Book
	habits   []document.Habit
	projects []document.Project
	journal  []journal.Entry
	session  *planner.Session

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDs overrides the id generator.
func WithIDs(g ident.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithLogger sets the logger (defaults to a no-op logger).
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithCapacities sets the configured horizon limits, overriding the ones
// stored in the document.
func WithCapacities(c horizon.Capacities) Option {
	return func(s *Service) { s.caps = c }
}

// New loads the document from p and builds the service around it.
func New(ctx context.Context, p store.Persistence, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, errNoPersistence
	}
	s := &Service{
		persistence: p,
		clock:       clock.System{},
		ids:         ident.UUID{},
		log:         zap.NewNop(),
		subs:        make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	doc, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adopt(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// adopt replaces the in-memory state with doc once it validates. Callers
// hold s.mu.
func (s *Service) adopt(doc document.Document) error {
	doc.Upgrade()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("app: invalid document: %w", err)
	}
	l, err := ledger.Restore(doc.Events, doc.CheckIns)
	if err != nil {
		return fmt.Errorf("app: invalid document: %w", err)
	}
	hs, err := horizon.Restore(doc.Horizons, s.caps,
		horizon.WithClock(s.clock),
		horizon.WithIDs(s.ids),
		horizon.WithRecorder(l))
	if err != nil {
		return fmt.Errorf("app: invalid document: %w", err)
	}
	s.horizons = hs
	s.ledger = l
	s.setups = planner.NewBook(doc.Setups...)
	s.habits = append([]document.Habit(nil), doc.Habits...)
	s.projects = append([]document.Project(nil), doc.Projects...)
	s.journal = append([]journal.Entry(nil), doc.Journal...)
	s.session = nil
	return nil
}

// Reload re-reads the document from persistence, discarding any planning
// session in progress.
func (s *Service) Reload(ctx context.Context) (Snapshot, error) {
	doc, err := s.persistence.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("app: reload: %w", err)
	}
	s.mu.Lock()
	if err := s.adopt(doc); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
	return snap, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	return s.persistence.Watch(ctx)
}

// Snapshot is a read-only view of everything a renderer needs.
type Snapshot struct {
	horizon.Snapshot
	Today    datekey.Key        `json:"today"`
	Setup    *planner.Setup     `json:"setup,omitempty"`
	Habits   []HabitStatus      `json:"habits"`
	Projects []document.Project `json:"projects"`
}

// HabitStatus is a habit with today's state.
type HabitStatus struct {
	document.Habit
	CheckedToday bool `json:"checkedToday"`
	Streak       int  `json:"streak"`
}

// Result is what every mutation returns. Warning carries a persistence
// failure (matching store.ErrPersistence); the mutation itself succeeded.
// Pending is set when the action needs confirmation and nothing changed.
type Result struct {
	Snapshot Snapshot             `json:"snapshot"`
	Warning  error                `json:"-"`
	Pending  *PendingConfirmation `json:"pending,omitempty"`
}

// Now is the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Snapshot returns the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	today := s.clock.Today()
	snap := Snapshot{
		Snapshot: s.horizons.Snapshot(),
		Today:    today,
		Projects: append([]document.Project(nil), s.projects...),
	}
	if setup, ok := s.setups.Get(today); ok {
		snap.Setup = &setup
	}
	checkIns := s.ledger.CheckIns()
	for _, h := range s.habits {
		if h.Archived {
			continue
		}
		snap.Habits = append(snap.Habits, HabitStatus{
			Habit:        h,
			CheckedToday: s.ledger.Checked(h.ID, today),
			Streak:       streak.Current(h.ID, checkIns, today),
		})
	}
	return snap
}

// Document returns the full object graph as persisted.
func (s *Service) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentLocked()
}

func (s *Service) documentLocked() document.Document {
	return document.Document{
		Schema:   document.Schema,
		Horizons: s.horizons.Snapshot().Horizons,
		Events:   s.ledger.Events(),
		CheckIns: s.ledger.CheckIns(),
		Setups:   s.setups.All(),
		Habits:   append([]document.Habit(nil), s.habits...),
		Projects: append([]document.Project(nil), s.projects...),
		Journal:  append([]journal.Entry(nil), s.journal...),
	}
}

// commit persists and publishes after a successful mutation. Callers hold
// s.mu.
func (s *Service) commit(ctx context.Context) Result {
	res := Result{Snapshot: s.snapshotLocked()}
	if err := s.persistence.Save(ctx, s.documentLocked()); err != nil {
		if !errors.Is(err, store.ErrPersistence) {
			err = &store.PersistenceError{Op: "save", Err: err}
		}
		s.log.Warn("save failed; keeping in-memory state", zap.Error(err))
		res.Warning = err
	}
	s.publish(res.Snapshot)
	return res
}

// fail logs desynchronisation errors before returning them. Capacity and
// selection errors are expected and go back to the caller unlogged.
func (s *Service) fail(err error, fields ...zap.Field) error {
	if errors.Is(err, horizon.ErrNotFound) {
		s.log.Warn("reference not found", append(fields, zap.Error(err))...)
	}
	return err
}

// Subscribe returns a channel receiving every new snapshot and a cancel func.
// Slow subscribers miss intermediate snapshots rather than block mutations.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot and deliver the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
