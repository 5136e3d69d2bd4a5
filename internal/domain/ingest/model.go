package ingest

import (
	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/measurement"
)

// Request is a single reading submitted by a sensor. Pointer fields
// distinguish a missing value from a zero one.
type Request struct {
	SensorID   *int64   `json:"sensor_id" validate:"required"`
	VariableID string   `json:"variable_id" validate:"required,max=64"`
	Value      *float64 `json:"value" validate:"required"`
}

// Outcome describes what happened to the alert side of an ingestion
type Outcome string

const (
	// OutcomeCreated means a new alert was written
	OutcomeCreated Outcome = "created"
	// OutcomeSuppressed means a breach was found but an active alert already
	// covers the station and variable
	OutcomeSuppressed Outcome = "suppressed"
	// OutcomeNoBreach means the value exceeded no configured tier
	OutcomeNoBreach Outcome = "no_breach"
	// OutcomeNotConfigured means the variable has no thresholds
	OutcomeNotConfigured Outcome = "not_configured"
)

// Result is the committed effect of one ingestion
type Result struct {
	Measurement *measurement.Measurement `json:"measurement"`
	Alert       *alert.Alert             `json:"alert,omitempty"`
	Outcome     Outcome                  `json:"outcome"`
}
