package service

import (
	"context"
	"fmt"
	"slices"

	"session-authz/internal/hierarchy/domain"
)

// UnassignedDomain is the sentinel for users with no domain assignment.
// It never matches a real node, so resolution yields an empty closure
// rather than an error.
const UnassignedDomain int64 = -1

// AssignmentSource looks up a user's domain assignment.
type AssignmentSource interface {
	AssignedDomain(ctx context.Context, userID int64) (int64, bool, error)
}

// NodeSource supplies the active domain nodes.
type NodeSource interface {
	ListActive(ctx context.Context) ([]domain.Node, error)
}

// Resolver computes the ancestry closure for a user's assigned domain: every
// ancestor up to the root plus every descendant, over active nodes only.
type Resolver struct {
	assignments AssignmentSource
	nodes       NodeSource
}

func NewResolver(assignments AssignmentSource, nodes NodeSource) *Resolver {
	return &Resolver{assignments: assignments, nodes: nodes}
}

// Closure resolves userID's assigned domain and returns the ids of that
// node's ancestors (up to and including its root) and all of its
// descendants, deduplicated and sorted ascending.
//
// A node participates only if it is active and connected to an active root
// through an all-active parent chain; a subject's domain that is inactive,
// missing, or orphaned by an inactive ancestor resolves to an empty closure.
// Visited sets bound both traversals, so a malformed graph with a parent
// cycle terminates (the cycle members are unrooted and resolve to empty).
func (r *Resolver) Closure(ctx context.Context, userID int64) ([]int64, error) {
	domainID, ok, err := r.assignments.AssignedDomain(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("domain assignment for user %d: %w", userID, err)
	}
	if !ok {
		domainID = UnassignedDomain
	}

	nodes, err := r.nodes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active domains: %w", err)
	}

	byID := make(map[int64]domain.Node, len(nodes))
	children := make(map[int64][]int64, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
		if n.ParentID != nil {
			children[*n.ParentID] = append(children[*n.ParentID], n.ID)
		}
	}

	if _, found := byID[domainID]; !found {
		return []int64{}, nil
	}

	// Walk the parent chain. Reaching a nil parent means the chain is rooted;
	// a parent outside the active set, or a revisit, means the node is
	// disconnected and contributes nothing.
	seen := map[int64]bool{domainID: true}
	rooted := false
	for cur := domainID; ; {
		n := byID[cur]
		if n.ParentID == nil {
			rooted = true
			break
		}
		pid := *n.ParentID
		if _, active := byID[pid]; !active {
			break
		}
		if seen[pid] {
			break
		}
		seen[pid] = true
		cur = pid
	}
	if !rooted {
		return []int64{}, nil
	}

	// BFS down the subtree. The children map only holds edges between active
	// nodes, so an inactive intermediate prunes everything below it.
	queue := []int64{domainID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if !seen[child] {
				seen[child] = true
				queue = append(queue, child)
			}
		}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}
