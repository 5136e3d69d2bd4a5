package threshold

import "context"

// Resolver looks up tiers for a variable. It returns nil, nil when the
// variable has no configuration.
type Resolver interface {
	GetThreshold(ctx context.Context, variableID string) (*Threshold, error)
}

// Repository defines the interface for threshold configuration storage
type Repository interface {
	Resolver

	// List retrieves every configured threshold ordered by variable
	List(ctx context.Context) ([]*Threshold, error)

	// Upsert creates or replaces the tiers for a variable
	Upsert(ctx context.Context, t *Threshold) error
}
