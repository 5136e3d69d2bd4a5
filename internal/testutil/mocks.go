package testutil

import (
	"context"
	"sort"

	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/threshold"
)

// MockThresholdRepository is a mock implementation of threshold.Repository
type MockThresholdRepository struct {
	Thresholds  map[string]*threshold.Threshold
	GetError    error
	UpsertError error
}

func NewMockThresholdRepository() *MockThresholdRepository {
	return &MockThresholdRepository{
		Thresholds: make(map[string]*threshold.Threshold),
	}
}

func (m *MockThresholdRepository) GetThreshold(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	t, ok := m.Thresholds[variableID]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (m *MockThresholdRepository) List(ctx context.Context) ([]*threshold.Threshold, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	var result []*threshold.Threshold
	for _, t := range m.Thresholds {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VariableID < result[j].VariableID })
	return result, nil
}

func (m *MockThresholdRepository) Upsert(ctx context.Context, t *threshold.Threshold) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.Thresholds[t.VariableID] = t
	return nil
}

// MockMeasurementRepository is a mock implementation of measurement.Repository
type MockMeasurementRepository struct {
	Measurements []*measurement.Measurement
	LastFilter   measurement.Filter
	ListError    error
}

func NewMockMeasurementRepository() *MockMeasurementRepository {
	return &MockMeasurementRepository{}
}

func (m *MockMeasurementRepository) List(ctx context.Context, filter measurement.Filter, limit, offset int) ([]*measurement.Measurement, int, error) {
	m.LastFilter = filter
	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var matched []*measurement.Measurement
	for _, x := range m.Measurements {
		if filter.StationID != 0 && x.StationID != filter.StationID {
			continue
		}
		if filter.SensorID != 0 && x.SensorID != filter.SensorID {
			continue
		}
		if filter.VariableID != "" && x.VariableID != filter.VariableID {
			continue
		}
		if filter.Start != nil && x.MeasuredAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && !x.MeasuredAt.Before(*filter.End) {
			continue
		}
		matched = append(matched, x)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].MeasuredAt.After(matched[j].MeasuredAt) })

	total := len(matched)
	if offset >= total {
		return []*measurement.Measurement{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}
