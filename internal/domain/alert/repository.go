package alert

import (
	"context"
	"time"
)

// ActiveFinder looks up the newest unresolved alert for a key.
// It returns nil, nil when there is none.
type ActiveFinder interface {
	LatestUnresolved(ctx context.Context, key Key) (*Alert, error)
}

// Writer inserts alerts. Implementations run inside the ingestion transaction.
type Writer interface {
	CreateAlert(ctx context.Context, a *Alert) error
}

// Repository defines the ledger operations used outside ingestion
type Repository interface {
	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// List retrieves all alerts, newest first
	List(ctx context.Context) ([]*Alert, error)

	// MarkResolved flags an unresolved alert as resolved at the given time.
	// It reports false when the alert was already resolved.
	MarkResolved(ctx context.Context, id int64, at time.Time) (bool, error)

	// CountUnresolvedBySeverity counts open alerts per severity
	CountUnresolvedBySeverity(ctx context.Context) (map[Severity]int, error)
}
