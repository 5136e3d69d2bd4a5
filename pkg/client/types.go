package client

import "time"

// Measurement is a stored sensor reading
type Measurement struct {
	ID         int64     `json:"id"`
	SensorID   int64     `json:"sensor_id"`
	StationID  int64     `json:"station_id"`
	VariableID string    `json:"variable_id"`
	Value      float64   `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// Alert is a threshold breach raised for a station and variable
type Alert struct {
	ID         int64      `json:"id"`
	StationID  int64      `json:"station_id"`
	VariableID string     `json:"variable_id"`
	Message    string     `json:"message"`
	Severity   string     `json:"severity"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AlertSummary counts unresolved alerts by severity
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Threshold holds the tier limits for a variable. Nil tiers are not configured.
type Threshold struct {
	VariableID string    `json:"variable_id"`
	Low        *float64  `json:"low"`
	Medium     *float64  `json:"medium"`
	High       *float64  `json:"high"`
	Critical   *float64  `json:"critical"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// PaginatedMeasurements is one page of measurement history
type PaginatedMeasurements struct {
	Data       []Measurement `json:"data"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalItems int64         `json:"total_items"`
	TotalPages int           `json:"total_pages"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}
