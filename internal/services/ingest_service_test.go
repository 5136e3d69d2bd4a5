package services

import (
	"context"
	stderrors "errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/testutil"
)

const (
	testSensor  int64 = 7
	testStation int64 = 3
)

func ptr[T any](v T) *T { return &v }

func newIngestFixture(t *testing.T) (*IngestService, *testutil.MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	store := testutil.NewMemoryStore()
	store.AddSensor(testSensor, testStation)
	store.SetThreshold(&threshold.Threshold{
		VariableID: "PM25",
		Low:        ptr(12.0),
		Medium:     ptr(35.0),
		High:       ptr(55.0),
		Critical:   ptr(150.0),
	})
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewIngestService(store, time.Hour, clock, log), store, clock
}

func reading(value float64) ingest.Request {
	return ingest.Request{SensorID: ptr(testSensor), VariableID: "PM25", Value: ptr(value)}
}

var pm25Key = alert.Key{StationID: testStation, VariableID: "PM25"}

func TestIngestService_Classification(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		outcome  ingest.Outcome
		severity alert.Severity
		message  string
	}{
		{name: "below low", value: 5, outcome: ingest.OutcomeNoBreach},
		{name: "equal to low", value: 12, outcome: ingest.OutcomeNoBreach},
		{name: "medium cites its limit", value: 40, outcome: ingest.OutcomeCreated, severity: alert.SeverityMedium,
			message: "value 40 PM25 exceeds medium threshold of 35"},
		{name: "equal to critical is high", value: 150, outcome: ingest.OutcomeCreated, severity: alert.SeverityHigh},
		{name: "above every tier is critical", value: 500, outcome: ingest.OutcomeCreated, severity: alert.SeverityCritical,
			message: "value 500 PM25 exceeds critical threshold of 150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, clock := newIngestFixture(t)

			res, err := svc.Ingest(context.Background(), reading(tt.value))
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, res.Outcome)
			assert.NotZero(t, res.Measurement.ID)
			assert.Equal(t, testStation, res.Measurement.StationID)
			assert.Equal(t, clock.Now().UTC(), res.Measurement.MeasuredAt)
			assert.Len(t, store.Measurements(), 1)

			alerts := store.Alerts()
			if tt.outcome != ingest.OutcomeCreated {
				assert.Nil(t, res.Alert)
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.severity, alerts[0].Severity)
			assert.False(t, alerts[0].IsResolved)
			assert.Equal(t, testStation, alerts[0].StationID)
			if tt.message != "" {
				assert.Equal(t, tt.message, alerts[0].Message)
			}
		})
	}
}

func TestIngestService_NoThresholdConfigured(t *testing.T) {
	svc, store, _ := newIngestFixture(t)

	res, err := svc.Ingest(context.Background(), ingest.Request{
		SensorID: ptr(testSensor), VariableID: "CO2", Value: ptr(99999.0),
	})
	require.NoError(t, err)

	assert.Equal(t, ingest.OutcomeNotConfigured, res.Outcome)
	assert.Len(t, store.Measurements(), 1)
	assert.Empty(t, store.Alerts())
}

func TestIngestService_ZeroValueIsAccepted(t *testing.T) {
	svc, store, _ := newIngestFixture(t)

	res, err := svc.Ingest(context.Background(), reading(0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Measurement.Value)
	assert.Len(t, store.Measurements(), 1)
}

func TestIngestService_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  ingest.Request
	}{
		{name: "missing sensor", req: ingest.Request{VariableID: "PM25", Value: ptr(1.0)}},
		{name: "missing variable", req: ingest.Request{SensorID: ptr(testSensor), Value: ptr(1.0)}},
		{name: "missing value", req: ingest.Request{SensorID: ptr(testSensor), VariableID: "PM25"}},
		{name: "nan value", req: ingest.Request{SensorID: ptr(testSensor), VariableID: "PM25", Value: ptr(math.NaN())}},
		{name: "infinite value", req: ingest.Request{SensorID: ptr(testSensor), VariableID: "PM25", Value: ptr(math.Inf(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newIngestFixture(t)

			_, err := svc.Ingest(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))
			assert.Zero(t, store.Commits)
			assert.Empty(t, store.Measurements())
		})
	}
}

func TestIngestService_UnknownSensorRollsBack(t *testing.T) {
	svc, store, _ := newIngestFixture(t)

	_, err := svc.Ingest(context.Background(), ingest.Request{
		SensorID: ptr(int64(999)), VariableID: "PM25", Value: ptr(500.0),
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, store.Measurements())
	assert.Empty(t, store.Alerts())
}

func TestIngestService_StorageFailureRollsBack(t *testing.T) {
	for _, op := range []string{"CreateMeasurement", "GetThreshold", "LatestUnresolved", "CreateAlert"} {
		t.Run(op, func(t *testing.T) {
			svc, store, _ := newIngestFixture(t)
			store.Fail[op] = stderrors.New("disk on fire")

			_, err := svc.Ingest(context.Background(), reading(500))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeStorageFailure, errors.CodeOf(err))
			assert.Empty(t, store.Measurements())
			assert.Empty(t, store.Alerts())
		})
	}
}

func TestIngestService_DeduplicatesWithinWindow(t *testing.T) {
	svc, store, clock := newIngestFixture(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, reading(40))
	require.NoError(t, err)
	require.Equal(t, ingest.OutcomeCreated, first.Outcome)

	clock.Advance(59 * time.Minute)
	second, err := svc.Ingest(ctx, reading(45))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeSuppressed, second.Outcome)
	assert.Nil(t, second.Alert)

	assert.Len(t, store.Measurements(), 2)
	assert.Equal(t, 1, store.UnresolvedFor(pm25Key))
}

func TestIngestService_EscalationIsSuppressed(t *testing.T) {
	svc, store, clock := newIngestFixture(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, reading(13))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	res, err := svc.Ingest(ctx, reading(500))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeSuppressed, res.Outcome)

	alerts := store.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.SeverityLow, alerts[0].Severity, "active alert is never upgraded")
}

func TestIngestService_WindowBoundary(t *testing.T) {
	svc, store, clock := newIngestFixture(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, reading(40))
	require.NoError(t, err)

	// An alert exactly one window old no longer suppresses
	clock.Advance(time.Hour)
	res, err := svc.Ingest(ctx, reading(40))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeCreated, res.Outcome)
	assert.Equal(t, 2, store.UnresolvedFor(pm25Key))
}

func TestIngestService_ResolvedAlertDoesNotSuppress(t *testing.T) {
	svc, store, clock := newIngestFixture(t)
	alerts := NewAlertService(store, clock, logger.New(logger.Config{Level: "error", Format: "json"}))
	ctx := context.Background()

	first, err := svc.Ingest(ctx, reading(40))
	require.NoError(t, err)

	_, err = alerts.Resolve(ctx, first.Alert.ID)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	second, err := svc.Ingest(ctx, reading(40))
	require.NoError(t, err)
	assert.Equal(t, ingest.OutcomeCreated, second.Outcome)
	assert.NotEqual(t, first.Alert.ID, second.Alert.ID)
	assert.Equal(t, 1, store.UnresolvedFor(pm25Key))
}

func TestIngestService_KeysAreIndependent(t *testing.T) {
	svc, store, _ := newIngestFixture(t)
	store.AddSensor(8, 4)
	store.SetThreshold(&threshold.Threshold{VariableID: "O3", Low: ptr(100.0)})
	ctx := context.Background()

	for _, req := range []ingest.Request{
		reading(40),
		{SensorID: ptr(int64(8)), VariableID: "PM25", Value: ptr(40.0)},
		{SensorID: ptr(testSensor), VariableID: "O3", Value: ptr(120.0)},
	} {
		res, err := svc.Ingest(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, ingest.OutcomeCreated, res.Outcome)
	}
	assert.Len(t, store.Alerts(), 3)
}

func TestIngestService_ConcurrentBreachesCreateOneAlert(t *testing.T) {
	svc, store, _ := newIngestFixture(t)
	// Give racing transactions every chance to interleave between the
	// dedup read and the alert insert
	store.AfterFind = func() { time.Sleep(time.Millisecond) }

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(context.Background(), reading(200))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, store.Measurements(), workers)
	assert.Equal(t, 1, store.UnresolvedFor(pm25Key))
	assert.Equal(t, workers, store.KeyLocks)
	assert.Zero(t, svc.locks.Len())
}
