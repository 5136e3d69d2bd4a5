package dto

import (
	"time"

	"github.com/vrisa/alertengine/internal/domain/alert"
)

// AlertDTO represents an alert in API responses
type AlertDTO struct {
	ID         int64      `json:"id"`
	StationID  int64      `json:"station_id"`
	VariableID string     `json:"variable_id"`
	Message    string     `json:"message"`
	Severity   string     `json:"severity" enums:"low,medium,high,critical"`
	IsResolved bool       `json:"is_resolved"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AlertSummaryDTO counts unresolved alerts per severity
type AlertSummaryDTO struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// ToAlertDTO converts a domain alert
func ToAlertDTO(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:         a.ID,
		StationID:  a.StationID,
		VariableID: a.VariableID,
		Message:    a.Message,
		Severity:   a.Severity.String(),
		IsResolved: a.IsResolved,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
	}
}

// ToAlertDTOs converts a list of domain alerts
func ToAlertDTOs(alerts []*alert.Alert) []AlertDTO {
	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = ToAlertDTO(a)
	}
	return dtos
}

// ToAlertSummaryDTO flattens per severity counts
func ToAlertSummaryDTO(counts map[alert.Severity]int) AlertSummaryDTO {
	s := AlertSummaryDTO{
		Critical: counts[alert.SeverityCritical],
		High:     counts[alert.SeverityHigh],
		Medium:   counts[alert.SeverityMedium],
		Low:      counts[alert.SeverityLow],
	}
	s.Total = s.Critical + s.High + s.Medium + s.Low
	return s
}
