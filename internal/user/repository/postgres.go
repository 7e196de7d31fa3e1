package repository

import (
	"context"
	"database/sql"
	"errors"

	"session-authz/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AssignedDomain returns the user's assigned domain id, or found=false when
// no assignment exists. It returns an error only for database failures.
func (r *PostgresRepository) AssignedDomain(ctx context.Context, userID int64) (int64, bool, error) {
	var domainID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT domain_id FROM user_domains WHERE user_id = $1`, userID).Scan(&domainID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return domainID, true, nil
}

// Create persists the user to the database. Used by the seed tool.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	hash := sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, password_hash) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		u.ID, u.Name, hash)
	return err
}

// AssignDomain sets the user's domain assignment, replacing any prior one.
func (r *PostgresRepository) AssignDomain(ctx context.Context, userID, domainID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_domains (user_id, domain_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET domain_id = EXCLUDED.domain_id`,
		userID, domainID)
	return err
}
