package threshold

import (
	"fmt"
	"strconv"

	"github.com/vrisa/alertengine/internal/domain/alert"
)

// Breach is the single highest tier a value exceeded
type Breach struct {
	Severity alert.Severity
	Limit    float64
}

// Classify returns the highest configured tier that value strictly exceeds.
// A value equal to a limit does not breach it. The second result is false
// when nothing is breached or t is nil.
func Classify(value float64, t *Threshold) (Breach, bool) {
	if t == nil {
		return Breach{}, false
	}
	for _, s := range alert.Severities {
		limit := t.Tier(s)
		if limit != nil && value > *limit {
			return Breach{Severity: s, Limit: *limit}, true
		}
	}
	return Breach{}, false
}

// Message describes the breach for operators, e.g.
// "value 40 PM25 exceeds medium threshold of 35".
func (b Breach) Message(value float64, variableID string) string {
	return fmt.Sprintf("value %s %s exceeds %s threshold of %s",
		formatFloat(value), variableID, b.Severity, formatFloat(b.Limit))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
