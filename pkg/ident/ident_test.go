package ident

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsParsable(t *testing.T) {
	id := UUID{}.NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid, got %q: %v", id, err)
	}
	if id == (UUID{}).NewID() {
		t.Fatal("expected distinct ids")
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "task"}
	if got := s.NewID(); got != "task-1" {
		t.Fatalf("expected task-1, got %s", got)
	}
	if got := s.NewID(); got != "task-2" {
		t.Fatalf("expected task-2, got %s", got)
	}
	if got := (&Sequence{}).NewID(); got != "id-1" {
		t.Fatalf("expected id-1, got %s", got)
	}
}
