package services

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vrisa/alertengine/internal/domain/alert"
)

// Deduplicator decides whether an unresolved alert still covers a key
type Deduplicator struct {
	Window time.Duration
	Clock  clockwork.Clock
}

// Active returns the newest unresolved alert for key if it was created
// strictly within the window, or nil.
func (d Deduplicator) Active(ctx context.Context, finder alert.ActiveFinder, key alert.Key) (*alert.Alert, error) {
	latest, err := finder.LatestUnresolved(ctx, key)
	if err != nil || latest == nil {
		return nil, err
	}

	cutoff := d.Clock.Now().Add(-d.Window)
	if latest.CreatedAt.After(cutoff) {
		return latest, nil
	}
	return nil, nil
}
