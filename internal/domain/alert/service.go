package alert

import "context"

// Service defines the interface for alert ledger reads and resolution
type Service interface {
	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// List retrieves all alerts, newest first
	List(ctx context.Context) ([]*Alert, error)

	// Resolve marks an alert resolved. Resolving an already resolved alert
	// returns it unchanged.
	Resolve(ctx context.Context, id int64) (*Alert, error)

	// Summary counts unresolved alerts per severity
	Summary(ctx context.Context) (map[Severity]int, error)
}
