package dto

import (
	"time"

	"github.com/vrisa/alertengine/internal/domain/threshold"
)

// ThresholdDTO represents a threshold in API responses
type ThresholdDTO struct {
	VariableID string    `json:"variable_id"`
	Low        *float64  `json:"low"`
	Medium     *float64  `json:"medium"`
	High       *float64  `json:"high"`
	Critical   *float64  `json:"critical"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetThresholdRequest is the body of PUT /thresholds/{variableID}. Omitted
// or null tiers are cleared.
type SetThresholdRequest struct {
	Low      *float64 `json:"low" validate:"required_without_all=Medium High Critical"`
	Medium   *float64 `json:"medium"`
	High     *float64 `json:"high"`
	Critical *float64 `json:"critical"`
}

// ToThreshold converts the request for a variable
func (r SetThresholdRequest) ToThreshold(variableID string) *threshold.Threshold {
	return &threshold.Threshold{
		VariableID: variableID,
		Low:        r.Low,
		Medium:     r.Medium,
		High:       r.High,
		Critical:   r.Critical,
	}
}

// ToThresholdDTO converts a domain threshold
func ToThresholdDTO(t *threshold.Threshold) ThresholdDTO {
	return ThresholdDTO{
		VariableID: t.VariableID,
		Low:        t.Low,
		Medium:     t.Medium,
		High:       t.High,
		Critical:   t.Critical,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ToThresholdDTOs converts a list of domain thresholds
func ToThresholdDTOs(ts []*threshold.Threshold) []ThresholdDTO {
	dtos := make([]ThresholdDTO, len(ts))
	for i, t := range ts {
		dtos[i] = ToThresholdDTO(t)
	}
	return dtos
}
