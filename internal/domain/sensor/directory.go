package sensor

import "context"

// Directory resolves the station a sensor is installed at. Implementations
// return a NotFound error for unknown sensors.
type Directory interface {
	LookupStation(ctx context.Context, sensorID int64) (int64, error)
}
