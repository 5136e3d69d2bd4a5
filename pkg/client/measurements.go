package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MeasurementService handles measurement ingestion and history
type MeasurementService struct {
	client *Client
}

// CreateMeasurementRequest is a single sensor reading
type CreateMeasurementRequest struct {
	SensorID   int64   `json:"sensor_id"`
	VariableID string  `json:"variable_id"`
	Value      float64 `json:"value"`
}

// MeasurementListOptions filters measurement history
type MeasurementListOptions struct {
	ListOptions
	StartDate  string // YYYY-MM-DD or RFC3339
	EndDate    string // YYYY-MM-DD (whole day) or RFC3339
	VariableID string
}

// Create ingests a reading. Any resulting alert is visible through Alerts().
func (s *MeasurementService) Create(ctx context.Context, req CreateMeasurementRequest) (*Measurement, error) {
	var m Measurement
	if err := s.client.doRequest(ctx, "POST", "/api/measurements", req, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// ListByStation retrieves a station's history, newest first
func (s *MeasurementService) ListByStation(ctx context.Context, stationID int64, opts *MeasurementListOptions) (*PaginatedMeasurements, error) {
	return s.list(ctx, fmt.Sprintf("/api/measurements/station/%d", stationID), opts)
}

// ListBySensor retrieves a sensor's history, newest first
func (s *MeasurementService) ListBySensor(ctx context.Context, sensorID int64, opts *MeasurementListOptions) (*PaginatedMeasurements, error) {
	return s.list(ctx, fmt.Sprintf("/api/measurements/sensor/%d", sensorID), opts)
}

func (s *MeasurementService) list(ctx context.Context, path string, opts *MeasurementListOptions) (*PaginatedMeasurements, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.StartDate != "" {
			query.Set("startDate", opts.StartDate)
		}
		if opts.EndDate != "" {
			query.Set("endDate", opts.EndDate)
		}
		if opts.VariableID != "" {
			query.Set("variable_id", opts.VariableID)
		}
	}

	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page PaginatedMeasurements
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}
