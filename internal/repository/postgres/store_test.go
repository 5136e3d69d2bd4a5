package postgres

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/services"
	"github.com/vrisa/alertengine/internal/testutil"
)

func request(sensorID int64, variableID string, value float64) ingest.Request {
	return ingest.Request{SensorID: &sensorID, VariableID: variableID, Value: &value}
}

var engineSensors = map[int64]int64{7: 3}

func newIngestService(db *sql.DB, d Dialect, clock clockwork.Clock) *services.IngestService {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return services.NewIngestService(NewStore(db, d), time.Hour, clock, log)
}

func newEngine(db *sql.DB, d Dialect) (*services.IngestService, alert.Service, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return newIngestService(db, d, clock), services.NewAlertService(NewAlertRepository(db, d), clock, log), clock
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	forEachDialect(t, engineSensors, func(t *testing.T, db *sql.DB, d Dialect) {
		store := NewStore(db, d)
		ctx := context.Background()

		err := store.WithinTx(ctx, func(tx ingest.Tx) error {
			if err := tx.CreateAlert(ctx, &alert.Alert{
				StationID: 3, VariableID: "PM25", Message: "m", Severity: alert.SeverityLow, CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			return errors.InvalidInput("abort")
		})
		require.Error(t, err)
		assert.Zero(t, testutil.CountRows(t, db, "alerts"))

		require.NoError(t, store.WithinTx(ctx, func(tx ingest.Tx) error {
			return tx.LockAlertKey(ctx, testKey(3, "PM25"))
		}))
	})
}

func TestEngine_EndToEnd(t *testing.T) {
	forEachDialect(t, engineSensors, testEngineEndToEnd)
}

func testEngineEndToEnd(t *testing.T, db *sql.DB, d Dialect) {
	ingestSvc, alertSvc, clock := newEngine(db, d)
	ctx := context.Background()

	// Below every tier
	res, err := ingestSvc.Ingest(ctx, request(7, "PM25", 10))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeNoBreach, res.Outcome)

	// Medium breach cites its limit
	res, err = ingestSvc.Ingest(ctx, request(7, "PM25", 40))
	require.NoError(t, err)
	require.Equal(t, ingest.OutcomeCreated, res.Outcome)
	assert.Equal(t, "value 40 PM25 exceeds medium threshold of 35", res.Alert.Message)
	first := res.Alert.ID

	// Suppressed inside the window
	clock.Advance(30 * time.Minute)
	res, err = ingestSvc.Ingest(ctx, request(7, "PM25", 500))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeSuppressed, res.Outcome)

	// Unconfigured variable
	res, err = ingestSvc.Ingest(ctx, request(7, "CO2", 5000))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeNotConfigured, res.Outcome)

	// Resolve then breach again
	resolved, err := alertSvc.Resolve(ctx, first)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)

	res, err = ingestSvc.Ingest(ctx, request(7, "PM25", 60))
	require.NoError(t, err)
	require.Equal(t, ingest.OutcomeCreated, res.Outcome)
	assert.Equal(t, alert.SeverityHigh, res.Alert.Severity)

	assert.Equal(t, 5, testutil.CountRows(t, db, "measurements"))
	assert.Equal(t, 2, testutil.CountRows(t, db, "alerts"))

	alerts, err := alertSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, res.Alert.ID, alerts[0].ID)
}

func TestEngine_UnknownSensorLeavesNoRows(t *testing.T) {
	forEachDialect(t, engineSensors, func(t *testing.T, db *sql.DB, d Dialect) {
		ingestSvc, _, _ := newEngine(db, d)

		_, err := ingestSvc.Ingest(context.Background(), request(404, "PM25", 500))
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Zero(t, testutil.CountRows(t, db, "measurements"))
		assert.Zero(t, testutil.CountRows(t, db, "alerts"))
	})
}

// breachConcurrently sends the same breach from every worker at once
func breachConcurrently(t *testing.T, svcs []*services.IngestService) {
	t.Helper()
	var wg sync.WaitGroup
	errs := make(chan error, len(svcs))
	for _, svc := range svcs {
		svc := svc
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(context.Background(), request(7, "PM25", 200))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestEngine_ConcurrentBreaches(t *testing.T) {
	const workers = 10

	forEachDialect(t, engineSensors, func(t *testing.T, db *sql.DB, d Dialect) {
		ingestSvc, _, _ := newEngine(db, d)

		shared := make([]*services.IngestService, workers)
		for i := range shared {
			shared[i] = ingestSvc
		}
		breachConcurrently(t, shared)

		assert.Equal(t, workers, testutil.CountRows(t, db, "measurements"))
		assert.Equal(t, 1, testutil.CountRows(t, db, "alerts"))
	})
}

// Each worker has its own service and key mutex, as separate API replicas
// would, so only the database serializes the alert decision.
func TestEngine_ConcurrentBreachesAcrossInstances(t *testing.T) {
	const workers = 10

	forEachDialect(t, engineSensors, func(t *testing.T, db *sql.DB, d Dialect) {
		clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

		replicas := make([]*services.IngestService, workers)
		for i := range replicas {
			replicas[i] = newIngestService(db, d, clock)
		}
		breachConcurrently(t, replicas)

		assert.Equal(t, workers, testutil.CountRows(t, db, "measurements"))
		assert.Equal(t, 1, testutil.CountRows(t, db, "alerts"))
	})
}
