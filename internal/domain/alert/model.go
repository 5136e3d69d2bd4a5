package alert

import (
	"fmt"
	"time"
)

// Severity is the classification of a threshold breach. The zero value is
// not a valid severity.
type Severity int

// Severity levels in ascending order
const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists every severity from highest to lowest
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

var severityNames = map[Severity]string{
	SeverityLow:      "low",
	SeverityMedium:   "medium",
	SeverityHigh:     "high",
	SeverityCritical: "critical",
}

// String returns the wire name of the severity
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Valid reports whether s is one of the four defined levels
func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// MoreSevereThan reports whether s ranks above other
func (s Severity) MoreSevereThan(other Severity) bool {
	return s > other
}

// ParseSeverity parses a wire name into a Severity
func ParseSeverity(name string) (Severity, error) {
	for s, n := range severityNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Alert is a row in the alert ledger
type Alert struct {
	ID         int64      `json:"id"`
	StationID  int64      `json:"station_id"`
	VariableID string     `json:"variable_id"`
	Message    string     `json:"message"`
	Severity   Severity   `json:"severity"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Key identifies the deduplication bucket of an alert
type Key struct {
	StationID  int64
	VariableID string
}

// String renders the key for locks and logs
func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.StationID, k.VariableID)
}
