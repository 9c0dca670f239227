package planner

import (
	"fmt"

	"tableflip.dev/focus/pkg/clock"
	"tableflip.dev/focus/pkg/datekey"
	"tableflip.dev/focus/pkg/horizon"
)

// Store is the part of the horizon store the planner drives.
type Store interface {
	Snapshot() horizon.Snapshot
	MoveTask(taskID string, from, to horizon.ID) (horizon.Task, error)
	SetPrimary(taskID string, id horizon.ID) (horizon.Task, error)
}

// State is the lifecycle of a planning session.
type State int

const (
	NotStarted State = iota
	TimeSelected
	FullySpecified
	Committed
	Skipped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case TimeSelected:
		return "time-selected"
	case FullySpecified:
		return "fully-specified"
	case Committed:
		return "committed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the session is finished.
func (s State) Terminal() bool {
	return s == Committed || s == Skipped
}

// Move is one staged relocation.
type Move struct {
	TaskID string     `json:"taskId"`
	From   horizon.ID `json:"from"`
	To     horizon.ID `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %s->%s", m.TaskID, m.From, m.To)
}

// Result summarises a commit.
type Result struct {
	MovedIn  int    `json:"movedIn"`
	MovedOut int    `json:"movedOut"`
	Applied  []Move `json:"applied,omitempty"`
	Setup    Setup  `json:"setup"`
}

// Candidate is an open task that could be pulled into today.
type Candidate struct {
	Task    horizon.Task
	Horizon horizon.ID
}

// Session stages one day's plan. Staging never touches the store, so an
// uncommitted session can be dropped at any time without side effects.
type Session struct {
	store Store
	book  *Book
	clock clock.Clock

	date    datekey.Key
	state   State
	time    TimeBudget
	energy  EnergyLevel
	limit   int
	in      []Move
	out     []Move
	primary string
}

// NewSession starts planning for the clock's current day.
func NewSession(store Store, book *Book, c clock.Clock) *Session {
	if c == nil {
		c = clock.System{}
	}
	if book == nil {
		book = NewBook()
	}
	return &Session{
		store: store,
		book:  book,
		clock: c,
		date:  c.Today(),
		state: NotStarted,
	}
}

// Date is the day being planned.
func (s *Session) Date() datekey.Key { return s.date }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Previous returns the setup already recorded for this day, if any.
func (s *Session) Previous() (Setup, bool) {
	return s.book.Get(s.date)
}

// Selection returns the current time and energy choices (either may be empty).
func (s *Session) Selection() (TimeBudget, EnergyLevel) {
	return s.time, s.energy
}

// SelectTime records the time budget.
func (s *Session) SelectTime(t TimeBudget) error {
	if s.state.Terminal() {
		return ErrClosed
	}
	if _, ok := baseAllowance[t]; !ok {
		return &SelectionError{Field: "time", Value: string(t)}
	}
	s.time = t
	s.refresh()
	return nil
}

// SelectEnergy records the energy level.
func (s *Session) SelectEnergy(e EnergyLevel) error {
	if s.state.Terminal() {
		return ErrClosed
	}
	if _, ok := energyModifier[e]; !ok {
		return &SelectionError{Field: "energy", Value: string(e)}
	}
	s.energy = e
	s.refresh()
	return nil
}

// refresh derives the state and limit from the selections. Changing a
// selection after staging keeps the staged moves; only new move-ins are
// checked against the new limit.
func (s *Session) refresh() {
	switch {
	case s.time != "" && s.energy != "":
		s.state = FullySpecified
		s.limit, _ = ComputeLimit(s.time, s.energy)
	case s.time != "":
		s.state = TimeSelected
		s.limit = 0
	default:
		s.state = NotStarted
		s.limit = 0
	}
}

// CurrentLimit returns today's focus limit once both selections are made.
func (s *Session) CurrentLimit() (int, bool) {
	if s.limit == 0 {
		return 0, false
	}
	return s.limit, true
}

// Pending returns copies of the staged move-ins and move-outs.
func (s *Session) Pending() (in, out []Move) {
	return append([]Move(nil), s.in...), append([]Move(nil), s.out...)
}

// Primary returns the task chosen as today's primary, if any.
func (s *Session) Primary() string { return s.primary }

// Projected is the number of open daily tasks once the staged moves apply.
func (s *Session) Projected() int {
	return s.store.Snapshot().OpenCount(horizon.Daily) - len(s.out) + len(s.in)
}

func (s *Session) ready() error {
	if s.state.Terminal() {
		return ErrClosed
	}
	switch {
	case s.time == "" && s.energy == "":
		return &SelectionError{Field: "time and energy"}
	case s.time == "":
		return &SelectionError{Field: "time"}
	case s.energy == "":
		return &SelectionError{Field: "energy"}
	}
	return nil
}

// admit rejects one more open task in daily when it would exceed the limit.
func (s *Session) admit(snap horizon.Snapshot) error {
	projected := snap.OpenCount(horizon.Daily) - len(s.out) + len(s.in) + 1
	if projected > s.limit {
		return &horizon.CapacityError{Horizon: horizon.Daily, Limit: s.limit, Open: projected, Focus: true}
	}
	return nil
}

// StageMoveIn proposes pulling a task from a coarser horizon into daily.
// Staging a task that is already in daily is a no-op, unless it was staged to
// move out, in which case that move-out is withdrawn (subject to the limit).
func (s *Session) StageMoveIn(taskID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	snap := s.store.Snapshot()
	task, from, ok := snap.Locate(taskID)
	if !ok {
		return &horizon.NotFoundError{TaskID: taskID}
	}
	if from == horizon.Daily {
		i := indexOf(s.out, taskID)
		if i < 0 {
			return nil
		}
		if err := s.admit(snap); err != nil {
			return err
		}
		s.out = append(s.out[:i], s.out[i+1:]...)
		return nil
	}
	if !task.Open() {
		return fmt.Errorf("%w: %q is already completed", ErrNotStageable, task.Text)
	}
	if indexOf(s.in, taskID) >= 0 {
		return nil
	}
	if err := s.admit(snap); err != nil {
		return err
	}
	s.in = append(s.in, Move{TaskID: taskID, From: from, To: horizon.Daily})
	return nil
}

// StageMoveOut proposes sending a daily task back to a coarser horizon. An
// empty destination means the horizon the task came from, or weekly when it
// has no provenance.
func (s *Session) StageMoveOut(taskID string, to horizon.ID) error {
	if err := s.ready(); err != nil {
		return err
	}
	task, from, ok := s.store.Snapshot().Locate(taskID)
	if !ok {
		return &horizon.NotFoundError{TaskID: taskID}
	}
	if from != horizon.Daily {
		if i := indexOf(s.in, taskID); i >= 0 {
			s.in = append(s.in[:i], s.in[i+1:]...)
			return nil
		}
		return fmt.Errorf("%w: %q is not in %s", ErrNotStageable, task.Text, horizon.Daily)
	}
	if !task.Open() {
		return fmt.Errorf("%w: %q is already completed", ErrNotStageable, task.Text)
	}
	if to == "" {
		to = task.MovedFrom
	}
	if to == "" || to == horizon.Daily {
		to = horizon.Weekly
	}
	if !to.CoarserThan(horizon.Daily) {
		return fmt.Errorf("%w: cannot move to %q", ErrNotStageable, to)
	}
	move := Move{TaskID: taskID, From: horizon.Daily, To: to}
	if i := indexOf(s.out, taskID); i >= 0 {
		s.out[i] = move
	} else {
		s.out = append(s.out, move)
	}
	if s.primary == taskID {
		s.primary = ""
	}
	return nil
}

// Unstage withdraws any staged move for the task.
func (s *Session) Unstage(taskID string) bool {
	removed := false
	if i := indexOf(s.in, taskID); i >= 0 {
		s.in = append(s.in[:i], s.in[i+1:]...)
		removed = true
	}
	if i := indexOf(s.out, taskID); i >= 0 {
		s.out = append(s.out[:i], s.out[i+1:]...)
		removed = true
	}
	if removed && s.primary == taskID {
		s.primary = ""
	}
	return removed
}

// ChoosePrimary picks today's primary task. It must end up in daily: either
// resident and not leaving, or staged to move in.
func (s *Session) ChoosePrimary(taskID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, from, ok := s.store.Snapshot().Locate(taskID)
	if !ok {
		return &horizon.NotFoundError{TaskID: taskID}
	}
	staysInDaily := from == horizon.Daily && indexOf(s.out, taskID) < 0
	if !staysInDaily && indexOf(s.in, taskID) < 0 {
		return fmt.Errorf("%w: primary task must be in %s today", ErrNotStageable, horizon.Daily)
	}
	s.primary = taskID
	return nil
}

// Candidates lists open tasks from coarser horizons not yet staged, finest
// horizon first so this week's work is offered before this quarter's.
func (s *Session) Candidates() []Candidate {
	snap := s.store.Snapshot()
	var out []Candidate
	ids := horizon.All()
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		if id == horizon.Daily {
			continue
		}
		h, _ := snap.Horizon(id)
		for _, t := range h.Tasks {
			if !t.Open() || indexOf(s.in, t.ID) >= 0 {
				continue
			}
			out = append(out, Candidate{Task: t, Horizon: id})
		}
	}
	return out
}

// Commit applies the staged moves (move-outs first, so they free room for
// the move-ins) and then records the day's setup. Moves go through the
// store one at a time; the first failure stops the commit and is reported
// as a *CommitError listing what was applied and what was not. Applied moves
// are not rolled back and are removed from staging, so the remainder can be
// retried. Once every move is applied the setup is always recorded; a primary
// that cannot be set comes back as a *PrimaryError alongside it.
func (s *Session) Commit() (Result, error) {
	if err := s.ready(); err != nil {
		return Result{}, err
	}
	moves := append(append([]Move(nil), s.out...), s.in...)
	var res Result
	for i, m := range moves {
		if _, err := s.store.MoveTask(m.TaskID, m.From, m.To); err != nil {
			s.dropApplied(res.Applied)
			return res, &CommitError{
				Applied: res.Applied,
				Failed:  m,
				Pending: append([]Move(nil), moves[i+1:]...),
				Err:     err,
			}
		}
		res.Applied = append(res.Applied, m)
		if m.To == horizon.Daily {
			res.MovedIn++
		} else {
			res.MovedOut++
		}
	}
	s.in, s.out = nil, nil

	var primaryErr error
	if s.primary != "" {
		if _, err := s.store.SetPrimary(s.primary, horizon.Daily); err != nil {
			primaryErr = &PrimaryError{TaskID: s.primary, Err: err}
			s.primary = ""
		}
	}

	now := s.clock.Now()
	setup := Setup{
		Date:          s.date,
		TimeBudget:    s.time,
		EnergyLevel:   s.energy,
		ComputedLimit: s.limit,
		PrimaryTaskID: s.primary,
		CommittedAt:   &now,
	}
	s.book.Upsert(setup)
	s.state = Committed
	res.Setup = setup
	return res, primaryErr
}

// Committed reports whether the commit changed anything: a move was applied
// or the day's setup was recorded.
func (r Result) Committed() bool {
	return len(r.Applied) > 0 || r.Setup.CommittedAt != nil
}

func (s *Session) dropApplied(applied []Move) {
	for _, m := range applied {
		if i := indexOf(s.in, m.TaskID); i >= 0 {
			s.in = append(s.in[:i], s.in[i+1:]...)
		}
		if i := indexOf(s.out, m.TaskID); i >= 0 {
			s.out = append(s.out[:i], s.out[i+1:]...)
		}
	}
}

// Skip ends the session without planning, recording only the date and when
// the day was skipped.
func (s *Session) Skip() (Setup, error) {
	if s.state.Terminal() {
		return Setup{}, ErrClosed
	}
	now := s.clock.Now()
	setup := Setup{Date: s.date, Skipped: true, SkippedAt: &now}
	s.book.Upsert(setup)
	s.in, s.out, s.primary = nil, nil, ""
	s.state = Skipped
	return setup, nil
}

func indexOf(moves []Move, taskID string) int {
	for i, m := range moves {
		if m.TaskID == taskID {
			return i
		}
	}
	return -1
}
