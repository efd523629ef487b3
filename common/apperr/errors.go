// Package apperr holds the error kinds shared by the store, the core engines
// and the HTTP layer. Callers match them with errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRank      = errors.New("invalid rank")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDuplicate        = errors.New("duplicate")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInactiveUser     = errors.New("inactive user")
	ErrConflict         = errors.New("conflicting concurrent update")

	// ErrRankIntegrity means a scope no longer holds exactly the ranks 0..N-1
	// after a mutation. The enclosing transaction must be rolled back.
	ErrRankIntegrity = errors.New("rank integrity violated")
)

// RankError reports a requested rank outside [0, Count).
type RankError struct {
	Desired int
	Count   int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("invalid rank %d: scope holds %d items", e.Desired, e.Count)
}

func (e *RankError) Unwrap() error { return ErrInvalidRank }

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// Invalid wraps ErrInvalidInput with a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
