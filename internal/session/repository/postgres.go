package repository

import (
	"context"
	"database/sql"
	"time"

	"session-authz/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DeleteStale removes sessions idle since before cutoff. Runs as a single
// auto-committed statement so concurrent authorizations never hold the lock
// across the rest of the flow.
func (r *PostgresRepository) DeleteStale(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_seen < $1`, cutoff.UTC())
	return err
}

// Exists reports whether a session row for the (user, token) pair is present.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) Exists(ctx context.Context, userID int64, tokenID string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sessions WHERE user_id = $1 AND token_id = $2`,
		userID, tokenID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Touch sets last_seen for the pair. A row deleted since the liveness check
// makes this a no-op; callers must not assume success implies the session
// still exists.
func (r *PostgresRepository) Touch(ctx context.Context, userID int64, tokenID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen = $1 WHERE user_id = $2 AND token_id = $3`,
		at.UTC(), userID, tokenID)
	return err
}

// Create persists the session to the database.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, token_id, last_seen) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, token_id) DO UPDATE SET last_seen = EXCLUDED.last_seen`,
		s.UserID, s.TokenID, s.LastSeen.UTC())
	return err
}
