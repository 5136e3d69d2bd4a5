package services

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
)

// ThresholdService implements threshold.Service
type ThresholdService struct {
	repo   threshold.Repository
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewThresholdService creates a new threshold service
func NewThresholdService(repo threshold.Repository, clock clockwork.Clock, log *logger.Logger) threshold.Service {
	return &ThresholdService{
		repo:   repo,
		clock:  clock,
		logger: log,
	}
}

// Get retrieves the tiers for a variable
func (s *ThresholdService) Get(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	t, err := s.repo.GetThreshold(ctx, variableID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.NotFound("Threshold")
	}
	return t, nil
}

// List retrieves every configured threshold
func (s *ThresholdService) List(ctx context.Context) ([]*threshold.Threshold, error) {
	return s.repo.List(ctx)
}

// Set creates or replaces the tiers for a variable
func (s *ThresholdService) Set(ctx context.Context, t *threshold.Threshold) (*threshold.Threshold, error) {
	if t.VariableID == "" {
		return nil, errors.InvalidInput("variable_id is required")
	}
	if !t.Configured() {
		return nil, errors.InvalidInput("at least one threshold tier is required")
	}

	t.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Upsert(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to save threshold")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"variable_id": t.VariableID,
		"low":         t.Low,
		"medium":      t.Medium,
		"high":        t.High,
		"critical":    t.Critical,
	}).Info("Threshold updated")

	return t, nil
}
