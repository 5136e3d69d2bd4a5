package client

import (
	"context"
	"fmt"
	"net/url"
)

// ThresholdService manages per-variable alert tiers
type ThresholdService struct {
	client *Client
}

// SetThresholdRequest replaces every tier of a variable. At least one tier is required.
type SetThresholdRequest struct {
	Low      *float64 `json:"low,omitempty"`
	Medium   *float64 `json:"medium,omitempty"`
	High     *float64 `json:"high,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

// List retrieves all configured thresholds
func (s *ThresholdService) List(ctx context.Context) ([]Threshold, error) {
	var thresholds []Threshold
	if err := s.client.doRequest(ctx, "GET", "/api/thresholds", nil, &thresholds); err != nil {
		return nil, err
	}

	return thresholds, nil
}

// Get retrieves the threshold of one variable
func (s *ThresholdService) Get(ctx context.Context, variableID string) (*Threshold, error) {
	path := fmt.Sprintf("/api/thresholds/%s", url.PathEscape(variableID))

	var t Threshold
	if err := s.client.doRequest(ctx, "GET", path, nil, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// Set creates or replaces the threshold of a variable
func (s *ThresholdService) Set(ctx context.Context, variableID string, req SetThresholdRequest) (*Threshold, error) {
	path := fmt.Sprintf("/api/thresholds/%s", url.PathEscape(variableID))

	var t Threshold
	if err := s.client.doRequest(ctx, "PUT", path, req, &t); err != nil {
		return nil, err
	}

	return &t, nil
}
