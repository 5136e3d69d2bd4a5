package measurement

import "context"

// Writer persists measurements
type Writer interface {
	CreateMeasurement(ctx context.Context, m *Measurement) error
}

// Repository defines the interface for measurement queries
type Repository interface {
	// List returns measurements matching filter, newest first, along with the
	// total number of matches before paging
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Measurement, int, error)
}
