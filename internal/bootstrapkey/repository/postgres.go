package repository

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a bootstrap key repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Key returns the stored base64-encoded verification key, or "" when the
// table is empty. It returns an error only for database failures.
func (r *PostgresRepository) Key(ctx context.Context) (string, error) {
	var keyB64 string
	err := r.db.QueryRowContext(ctx,
		`SELECT key_b64 FROM bootstrap_keys LIMIT 1`).Scan(&keyB64)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return keyB64, nil
}

// Put stores the key if no record exists yet; an existing record wins.
func (r *PostgresRepository) Put(ctx context.Context, keyB64 string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bootstrap_keys (key_b64)
		 SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM bootstrap_keys)`,
		keyB64)
	return err
}
