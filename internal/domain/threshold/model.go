package threshold

import (
	"time"

	"github.com/vrisa/alertengine/internal/domain/alert"
)

// Threshold holds the severity tiers configured for one variable. Each tier
// is optional. Tiers are expected to increase from Low to Critical but this
// is not enforced.
type Threshold struct {
	VariableID string    `json:"variable_id"`
	Low        *float64  `json:"low"`
	Medium     *float64  `json:"medium"`
	High       *float64  `json:"high"`
	Critical   *float64  `json:"critical"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tier returns the limit configured for a severity, or nil
func (t *Threshold) Tier(s alert.Severity) *float64 {
	switch s {
	case alert.SeverityLow:
		return t.Low
	case alert.SeverityMedium:
		return t.Medium
	case alert.SeverityHigh:
		return t.High
	case alert.SeverityCritical:
		return t.Critical
	}
	return nil
}

// Configured reports whether at least one tier is set
func (t *Threshold) Configured() bool {
	return t.Low != nil || t.Medium != nil || t.High != nil || t.Critical != nil
}
