package app

import (
	"fmt"

	"tableflip.dev/focus/pkg/horizon"
)

// NotFoundError reports a missing habit or project. It matches
// horizon.ErrNotFound so callers handle every missing reference alike.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("app: %s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == horizon.ErrNotFound
}
