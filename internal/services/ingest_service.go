package services

import (
	"context"
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/metrics"
	"github.com/vrisa/alertengine/internal/pkg/validator"
)

// IngestService implements ingest.Service
type IngestService struct {
	store     ingest.Store
	dedup     Deduplicator
	locks     *KeyedMutex
	clock     clockwork.Clock
	validator *validator.Validator
	logger    *logger.Logger
}

// NewIngestService creates a new ingestion coordinator
func NewIngestService(store ingest.Store, window time.Duration, clock clockwork.Clock, log *logger.Logger) *IngestService {
	return &IngestService{
		store:     store,
		dedup:     Deduplicator{Window: window, Clock: clock},
		locks:     NewKeyedMutex(),
		clock:     clock,
		validator: validator.New(),
		logger:    log,
	}
}

// Ingest persists a measurement and raises an alert when it breaches a
// threshold and no active alert covers its station and variable. Nothing is
// persisted when any step fails.
func (s *IngestService) Ingest(ctx context.Context, req ingest.Request) (*ingest.Result, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		metrics.RecordIngest("invalid", 0)
		return nil, errors.ValidationError("Invalid measurement", errs)
	}
	if math.IsNaN(*req.Value) || math.IsInf(*req.Value, 0) {
		metrics.RecordIngest("invalid", 0)
		return nil, errors.InvalidInput("value must be a finite number")
	}

	start := s.clock.Now()

	// Released after the transaction ends so a waiter sees the committed alert
	var unlock func()
	defer func() {
		if unlock != nil {
			unlock()
		}
	}()

	var (
		result     *ingest.Result
		escalation bool
		previous   *alert.Alert
		suppressed alert.Severity
	)
	err := s.store.WithinTx(ctx, func(tx ingest.Tx) error {
		stationID, err := tx.LookupStation(ctx, *req.SensorID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		m := &measurement.Measurement{
			SensorID:   *req.SensorID,
			StationID:  stationID,
			VariableID: req.VariableID,
			Value:      *req.Value,
			MeasuredAt: now,
		}
		if err := tx.CreateMeasurement(ctx, m); err != nil {
			return err
		}
		result = &ingest.Result{Measurement: m}

		t, err := tx.GetThreshold(ctx, req.VariableID)
		if err != nil {
			return err
		}
		if t == nil {
			result.Outcome = ingest.OutcomeNotConfigured
			return nil
		}

		breach, ok := threshold.Classify(m.Value, t)
		if !ok {
			result.Outcome = ingest.OutcomeNoBreach
			return nil
		}

		key := alert.Key{StationID: stationID, VariableID: req.VariableID}
		unlock = s.locks.Lock(key.String())
		if err := tx.LockAlertKey(ctx, key); err != nil {
			return err
		}

		active, err := s.dedup.Active(ctx, tx, key)
		if err != nil {
			return err
		}
		if active != nil {
			result.Outcome = ingest.OutcomeSuppressed
			previous = active
			suppressed = breach.Severity
			escalation = breach.Severity.MoreSevereThan(active.Severity)
			return nil
		}

		a := &alert.Alert{
			StationID:  stationID,
			VariableID: req.VariableID,
			Message:    breach.Message(m.Value, req.VariableID),
			Severity:   breach.Severity,
			CreatedAt:  now,
		}
		if err := tx.CreateAlert(ctx, a); err != nil {
			return err
		}
		result.Alert = a
		result.Outcome = ingest.OutcomeCreated
		return nil
	})
	if err != nil {
		return nil, s.fail(err, req, start)
	}

	metrics.RecordIngest(string(result.Outcome), s.clock.Since(start))
	s.logOutcome(result, previous, suppressed, escalation)

	return result, nil
}

func (s *IngestService) fail(err error, req ingest.Request, start time.Time) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.StorageFailure("Failed to record measurement", err)
	}

	metrics.RecordIngest("failed", s.clock.Since(start))
	if appErr.StatusCode >= 500 {
		s.logger.WithFields(map[string]interface{}{
			"sensor_id":   *req.SensorID,
			"variable_id": req.VariableID,
		}).ErrorWithErr(err, "Ingestion rolled back")
	}
	return appErr
}

func (s *IngestService) logOutcome(result *ingest.Result, previous *alert.Alert, suppressed alert.Severity, escalation bool) {
	m := result.Measurement
	fields := map[string]interface{}{
		"measurement_id": m.ID,
		"station_id":     m.StationID,
		"variable_id":    m.VariableID,
		"value":          m.Value,
		"outcome":        result.Outcome,
	}

	switch result.Outcome {
	case ingest.OutcomeCreated:
		metrics.RecordAlertCreated(result.Alert.Severity.String())
		fields["alert_id"] = result.Alert.ID
		fields["severity"] = result.Alert.Severity.String()
		s.logger.WithFields(fields).Info("Alert created")
	case ingest.OutcomeSuppressed:
		metrics.RecordAlertSuppressed(escalation)
		fields["severity"] = suppressed.String()
		fields["active_alert_id"] = previous.ID
		fields["active_severity"] = previous.Severity.String()
		if escalation {
			s.logger.WithFields(fields).Info("More severe breach suppressed by active alert")
			return
		}
		s.logger.WithFields(fields).Debug("Breach suppressed by active alert")
	default:
		s.logger.WithFields(fields).Debug("Measurement recorded")
	}
}
