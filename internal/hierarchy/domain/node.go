package domain

// Node is one domain in the hierarchical tenancy tree. A nil ParentID marks a
// root; the table is self-referential and forms a forest of rooted trees.
type Node struct {
	ID       int64
	ParentID *int64
	Status   NodeStatus
}

type NodeStatus string

const (
	// StatusActive nodes participate in ancestry traversal.
	StatusActive NodeStatus = "N"
	// StatusDeleted nodes are excluded from traversal but kept for referential history.
	StatusDeleted NodeStatus = "D"
)

func (n *Node) IsActive() bool {
	return n.Status == StatusActive
}
