package client

import (
	"context"
	"fmt"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// List retrieves every alert, newest first
func (s *AlertService) List(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	if err := s.client.doRequest(ctx, "GET", "/api/alerts", nil, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// Get retrieves a single alert by ID
func (s *AlertService) Get(ctx context.Context, id int64) (*Alert, error) {
	path := fmt.Sprintf("/api/alerts/%d", id)

	var alert Alert
	if err := s.client.doRequest(ctx, "GET", path, nil, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

// Resolve marks an alert resolved. Resolving twice returns the same alert.
func (s *AlertService) Resolve(ctx context.Context, id int64) (*Alert, error) {
	path := fmt.Sprintf("/api/alerts/%d/resolve", id)

	var alert Alert
	if err := s.client.doRequest(ctx, "PUT", path, nil, &alert); err != nil {
		return nil, err
	}

	return &alert, nil
}

// Summary counts unresolved alerts by severity
func (s *AlertService) Summary(ctx context.Context) (*AlertSummary, error) {
	var summary AlertSummary
	if err := s.client.doRequest(ctx, "GET", "/api/alerts/summary", nil, &summary); err != nil {
		return nil, err
	}

	return &summary, nil
}
