package threshold

import "context"

// Service defines the interface for threshold configuration
type Service interface {
	// Get retrieves the tiers for a variable
	Get(ctx context.Context, variableID string) (*Threshold, error)

	// List retrieves every configured threshold
	List(ctx context.Context) ([]*Threshold, error)

	// Set creates or replaces the tiers for a variable
	Set(ctx context.Context, t *Threshold) (*Threshold, error)
}
