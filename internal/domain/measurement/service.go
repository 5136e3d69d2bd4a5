package measurement

import "context"

// Service defines the interface for measurement history
type Service interface {
	// ListByStation returns a station's measurements, newest first
	ListByStation(ctx context.Context, filter Filter, limit, offset int) ([]*Measurement, int, error)

	// ListBySensor returns a sensor's measurements, newest first
	ListBySensor(ctx context.Context, filter Filter, limit, offset int) ([]*Measurement, int, error)
}
