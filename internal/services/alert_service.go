package services

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/metrics"
)

// AlertService implements alert.Service
type AlertService struct {
	repo   alert.Repository
	clock  clockwork.Clock
	logger *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(repo alert.Repository, clock clockwork.Clock, log *logger.Logger) alert.Service {
	return &AlertService{
		repo:   repo,
		clock:  clock,
		logger: log,
	}
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves all alerts, newest first
func (s *AlertService) List(ctx context.Context) ([]*alert.Alert, error) {
	return s.repo.List(ctx)
}

// Resolve marks an alert resolved
func (s *AlertService) Resolve(ctx context.Context, id int64) (*alert.Alert, error) {
	changed, err := s.repo.MarkResolved(ctx, id, s.clock.Now().UTC())
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to resolve alert")
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.RecordAlertResolved()
		s.logger.WithFields(map[string]interface{}{
			"alert_id":    id,
			"station_id":  a.StationID,
			"variable_id": a.VariableID,
			"severity":    a.Severity.String(),
		}).Info("Alert resolved")
	}

	return a, nil
}

// Summary counts unresolved alerts per severity
func (s *AlertService) Summary(ctx context.Context) (map[alert.Severity]int, error) {
	return s.repo.CountUnresolvedBySeverity(ctx)
}
