package services

import (
	"context"

	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

// MeasurementService implements measurement.Service
type MeasurementService struct {
	repo measurement.Repository
}

// NewMeasurementService creates a new measurement history service
func NewMeasurementService(repo measurement.Repository) measurement.Service {
	return &MeasurementService{repo: repo}
}

// ListByStation returns a station's measurements, newest first
func (s *MeasurementService) ListByStation(ctx context.Context, filter measurement.Filter, limit, offset int) ([]*measurement.Measurement, int, error) {
	if filter.StationID <= 0 {
		return nil, 0, errors.InvalidInput("station id must be positive")
	}
	filter.SensorID = 0
	return s.list(ctx, filter, limit, offset)
}

// ListBySensor returns a sensor's measurements, newest first
func (s *MeasurementService) ListBySensor(ctx context.Context, filter measurement.Filter, limit, offset int) ([]*measurement.Measurement, int, error) {
	if filter.SensorID <= 0 {
		return nil, 0, errors.InvalidInput("sensor id must be positive")
	}
	filter.StationID = 0
	return s.list(ctx, filter, limit, offset)
}

func (s *MeasurementService) list(ctx context.Context, filter measurement.Filter, limit, offset int) ([]*measurement.Measurement, int, error) {
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return nil, 0, errors.InvalidInput("endDate must not be before startDate")
	}
	return s.repo.List(ctx, filter, limit, offset)
}
