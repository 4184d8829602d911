package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a referenced entity missing from the loaded graph.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument reports a request rejected before any mutation.
	ErrInvalidArgument = errors.New("invalid argument")
)

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}
