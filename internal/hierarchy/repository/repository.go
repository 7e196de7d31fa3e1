package repository

import (
	"context"

	"session-authz/internal/hierarchy/domain"
)

// Repository defines persistence for domain tree nodes. The tree is
// read-only from the authorization path; Create exists for the seed tool.
type Repository interface {
	// ListActive returns every node whose status participates in traversal.
	ListActive(ctx context.Context) ([]domain.Node, error)
	Create(ctx context.Context, n *domain.Node) error
}
