// Package ident generates opaque identifiers for tasks, habits, projects and
// journal entries.
package ident

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out unique identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates predictable ids like "task-1", "task-2". Intended for tests.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
