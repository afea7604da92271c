package event

import "context"

// Repository provides read-only snapshots of scheduled events. No
// transactional guarantees are expected beyond row consistency within a
// single query.
type Repository interface {
	ListClasses(ctx context.Context) ([]*Event, error)
	ListAssignments(ctx context.Context) ([]*Event, error)
}
