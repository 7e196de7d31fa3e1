package repository

import (
	"context"
	"time"

	"session-authz/internal/session/domain"
)

// Repository defines persistence for sessions. Each operation is an
// independent unit of work; nothing here spans a transaction across calls.
type Repository interface {
	// DeleteStale removes every session whose last_seen is before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) error
	// Exists reports whether a session for the (user, token) pair is present.
	Exists(ctx context.Context, userID int64, tokenID string) (bool, error)
	// Touch advances last_seen for the pair; no-op when the row is gone.
	Touch(ctx context.Context, userID int64, tokenID string, at time.Time) error
	// Create persists a new session. Used by the seed tool; login lives elsewhere.
	Create(ctx context.Context, s *domain.Session) error
}
