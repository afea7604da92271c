package student

import "context"

// Repository provides a read-only snapshot of the recipient roster,
// refreshed on every tick.
type Repository interface {
	ListAll(ctx context.Context) ([]*Student, error)
}
