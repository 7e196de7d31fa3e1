package repository

import (
	"context"
	"database/sql"

	"session-authz/internal/hierarchy/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a domain tree repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListActive returns all active domain nodes. The whole active set is loaded
// in one query; the resolver traverses it in memory.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]domain.Node, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, parent_id, status FROM domains WHERE status = $1`,
		string(domain.StatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var (
			n      domain.Node
			parent sql.NullInt64
			status string
		)
		if err := rows.Scan(&n.ID, &parent, &status); err != nil {
			return nil, err
		}
		if parent.Valid {
			pid := parent.Int64
			n.ParentID = &pid
		}
		n.Status = domain.NodeStatus(status)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// Create persists the node to the database. Used by the seed tool.
func (r *PostgresRepository) Create(ctx context.Context, n *domain.Node) error {
	var parent sql.NullInt64
	if n.ParentID != nil {
		parent = sql.NullInt64{Int64: *n.ParentID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO domains (id, parent_id, status) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		n.ID, parent, string(n.Status))
	return err
}
