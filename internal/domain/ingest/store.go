package ingest

import (
	"context"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/sensor"
	"github.com/vrisa/alertengine/internal/domain/threshold"
)

// Tx is the unit of work for one ingestion. Everything done through a Tx
// commits or rolls back together.
type Tx interface {
	measurement.Writer
	sensor.Directory
	threshold.Resolver
	alert.ActiveFinder
	alert.Writer

	// LockAlertKey serializes ingestions that share a key until the
	// transaction ends. Stores without cross-process locking may no-op.
	LockAlertKey(ctx context.Context, key alert.Key) error
}

// Store opens ingestion transactions
type Store interface {
	// WithinTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Service defines the ingestion entry point
type Service interface {
	Ingest(ctx context.Context, req Request) (*Result, error)
}
