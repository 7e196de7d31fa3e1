package repository

import (
	"context"

	"session-authz/internal/user/domain"
)

// Repository defines persistence for users and their domain assignments.
type Repository interface {
	// AssignedDomain returns the user's assigned domain id. The second return
	// is false when the user has no assignment.
	AssignedDomain(ctx context.Context, userID int64) (int64, bool, error)
	Create(ctx context.Context, u *domain.User) error
	AssignDomain(ctx context.Context, userID, domainID int64) error
}
