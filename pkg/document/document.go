// Package document defines the full persisted object graph: horizons, the
// activity ledger, habit check-ins, daily setups, habits, projects and
// journal entries. Persistence backends load and save it whole.
package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
	"tableflip.dev/focus/pkg/planner"
)

// Schema is the current document schema.
const Schema = "v1"

// Habit is a recurring activity tracked by daily check-ins.
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	Archived   bool       `json:"archived,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// Project groups tasks. Tasks refer to it by id; it owns nothing.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	CreatedAt   time.Time  `json:"createdAt"`
	Completed   bool       `json:"completed,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Document is everything the core persists.
type Document struct {
	Schema   string            `json:"schema"`
	Horizons []horizon.Horizon `json:"horizons"`
	Events   []ledger.Event    `json:"events"`
	CheckIns []ledger.CheckIn  `json:"checkIns"`
	Setups   []planner.Setup   `json:"setups"`
	Habits   []Habit           `json:"habits"`
	Projects []Project         `json:"projects"`
	Journal  []journal.Entry   `json:"journal"`
}

// New returns an empty document with every canonical horizon.
func New(caps horizon.Capacities) Document {
	return Document{
		Schema:   Schema,
		Horizons: horizon.New(caps).Snapshot().Horizons,
	}
}

// Upgrade stamps the current schema on a document written before schemas
// were recorded. It reports whether anything changed.
func (d *Document) Upgrade() bool {
	if d.Schema != "" {
		return false
	}
	d.Schema = Schema
	return true
}

// ActiveHabits returns the ids of habits that are not archived.
func (d Document) ActiveHabits() []string {
	var ids []string
	for _, h := range d.Habits {
		if !h.Archived {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// Validate checks every invariant a loaded document must satisfy before the
// core adopts it.
func (d Document) Validate() error {
	var errs []error
	if d.Schema != Schema {
		errs = append(errs, fmt.Errorf("document: unsupported schema %q", d.Schema))
	}
	if err := horizon.Validate(d.Horizons); err != nil {
		errs = append(errs, err)
	}
	if _, err := ledger.Restore(d.Events, d.CheckIns); err != nil {
		errs = append(errs, err)
	}

	setups := make(map[string]bool, len(d.Setups))
	for _, s := range d.Setups {
		if !s.Date.Valid() {
			errs = append(errs, fmt.Errorf("document: setup with invalid date %q", s.Date))
			continue
		}
		if setups[string(s.Date)] {
			errs = append(errs, fmt.Errorf("document: two setups for %s", s.Date))
		}
		setups[string(s.Date)] = true
	}

	habits := unique("habit", len(d.Habits), func(i int) (string, string) { return d.Habits[i].ID, d.Habits[i].Name })
	projects := unique("project", len(d.Projects), func(i int) (string, string) { return d.Projects[i].ID, d.Projects[i].Name })
	errs = append(errs, habits...)
	errs = append(errs, projects...)

	for _, p := range d.Projects {
		if p.Completed != (p.CompletedAt != nil) {
			errs = append(errs, fmt.Errorf("document: project %q completedAt does not match completed", p.ID))
		}
	}
	for _, j := range d.Journal {
		if j.ID == "" || !j.Date.Valid() {
			errs = append(errs, fmt.Errorf("document: malformed journal entry %q", j.ID))
		}
	}
	return errors.Join(errs...)
}

func unique(kind string, n int, at func(int) (id, name string)) []error {
	var errs []error
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id, name := at(i)
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("document: %s without id", kind))
		case seen[id]:
			errs = append(errs, fmt.Errorf("document: duplicate %s %q", kind, id))
		case strings.TrimSpace(name) == "":
			errs = append(errs, fmt.Errorf("document: %s %q has no name", kind, id))
		}
		seen[id] = true
	}
	return errs
}
