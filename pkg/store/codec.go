package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/focus/pkg/document"
	"tableflip.dev/focus/pkg/horizon"
	"tableflip.dev/focus/pkg/journal"
	"tableflip.dev/focus/pkg/ledger"
	"tableflip.dev/focus/pkg/planner"
)

// ErrPersistence is matched by every *PersistenceError.
var ErrPersistence = errors.New("store: persistence failure")

// PersistenceError wraps an opaque backend failure. Callers treat it as a
// warning; the in-memory state stays authoritative.
type PersistenceError struct {
	Op      string
	Section string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Section, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Document sections. Each one is stored as its own JSON value so a change to
// one part of the graph rewrites only that part.
const (
	SectionMeta     = "meta"
	SectionHorizons = "horizons"
	SectionEvents   = "events"
	SectionCheckIns = "checkins"
	SectionSetups   = "setups"
	SectionHabits   = "habits"
	SectionProjects = "projects"
	SectionJournal  = "journal"
)

// Sections lists every section in the order they are written.
func Sections() []string {
	return []string{
		SectionMeta,
		SectionHorizons,
		SectionEvents,
		SectionCheckIns,
		SectionSetups,
		SectionHabits,
		SectionProjects,
		SectionJournal,
	}
}

type meta struct {
	Schema string `json:"schema"`
}

func encode(doc document.Document) (map[string][]byte, error) {
	values := map[string]any{
		SectionMeta:     meta{Schema: doc.Schema},
		SectionHorizons: orEmpty(doc.Horizons),
		SectionEvents:   orEmpty(doc.Events),
		SectionCheckIns: orEmpty(doc.CheckIns),
		SectionSetups:   orEmpty(doc.Setups),
		SectionHabits:   orEmpty(doc.Habits),
		SectionProjects: orEmpty(doc.Projects),
		SectionJournal:  orEmpty(doc.Journal),
	}
	out := make(map[string][]byte, len(values))
	for name, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, &PersistenceError{Op: "encode", Section: name, Err: err}
		}
		out[name] = data
	}
	return out, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// decode assembles a document from whatever sections exist. A store with no
// sections at all yields an empty, current document; a store written before
// schemas were recorded is upgraded in place.
func decode(raw map[string][]byte) (document.Document, error) {
	if len(raw) == 0 {
		return document.New(nil), nil
	}
	var (
		m        meta
		doc      document.Document
		horizons []horizon.Horizon
		events   []ledger.Event
		checkIns []ledger.CheckIn
		setups   []planner.Setup
		habits   []document.Habit
		projects []document.Project
		entries  []journal.Entry
	)
	targets := map[string]any{
		SectionMeta:     &m,
		SectionHorizons: &horizons,
		SectionEvents:   &events,
		SectionCheckIns: &checkIns,
		SectionSetups:   &setups,
		SectionHabits:   &habits,
		SectionProjects: &projects,
		SectionJournal:  &entries,
	}
	for name, target := range targets {
		data, ok := raw[name]
		if !ok || len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, target); err != nil {
			return document.Document{}, &PersistenceError{Op: "decode", Section: name, Err: err}
		}
	}
	doc = document.Document{
		Schema:   m.Schema,
		Horizons: horizons,
		Events:   events,
		CheckIns: checkIns,
		Setups:   setups,
		Habits:   habits,
		Projects: projects,
		Journal:  entries,
	}
	doc.Upgrade()
	return doc, nil
}
