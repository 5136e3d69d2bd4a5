package dto

import (
	"time"

	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/measurement"
)

// CreateMeasurementRequest is the body of POST /measurements
type CreateMeasurementRequest struct {
	SensorID   *int64   `json:"sensor_id" example:"7"`
	VariableID string   `json:"variable_id" example:"PM25"`
	Value      *float64 `json:"value" example:"40.5"`
}

// ToIngestRequest converts the body into an ingestion request
func (r CreateMeasurementRequest) ToIngestRequest() ingest.Request {
	return ingest.Request{
		SensorID:   r.SensorID,
		VariableID: r.VariableID,
		Value:      r.Value,
	}
}

// MeasurementDTO represents a measurement in API responses
type MeasurementDTO struct {
	ID         int64     `json:"id"`
	SensorID   int64     `json:"sensor_id"`
	StationID  int64     `json:"station_id"`
	VariableID string    `json:"variable_id"`
	Value      float64   `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToMeasurementDTO converts a domain measurement
func ToMeasurementDTO(m *measurement.Measurement) MeasurementDTO {
	return MeasurementDTO{
		ID:         m.ID,
		SensorID:   m.SensorID,
		StationID:  m.StationID,
		VariableID: m.VariableID,
		Value:      m.Value,
		Timestamp:  m.MeasuredAt,
	}
}

// ToMeasurementDTOs converts a list of domain measurements
func ToMeasurementDTOs(ms []*measurement.Measurement) []MeasurementDTO {
	dtos := make([]MeasurementDTO, len(ms))
	for i, m := range ms {
		dtos[i] = ToMeasurementDTO(m)
	}
	return dtos
}
