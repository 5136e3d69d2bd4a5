package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/validator"
	"github.com/vrisa/alertengine/internal/services"
	"github.com/vrisa/alertengine/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type fixture struct {
	router       http.Handler
	store        *testutil.MemoryStore
	thresholds   *testutil.MockThresholdRepository
	measurements *testutil.MockMeasurementRepository
	clock        *clockwork.FakeClock
}

func f64(v float64) *float64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	store := testutil.NewMemoryStore()
	store.AddSensor(7, 3)
	store.SetThreshold(&threshold.Threshold{VariableID: "PM25", Low: f64(12), Medium: f64(35), High: f64(55), Critical: f64(150)})

	thresholds := testutil.NewMockThresholdRepository()
	measurements := testutil.NewMockMeasurementRepository()

	mh := NewMeasurementHandler(
		services.NewIngestService(store, time.Hour, clock, log),
		services.NewMeasurementService(measurements),
		log,
	)
	ah := NewAlertHandler(services.NewAlertService(store, clock, log), log)
	th := NewThresholdHandler(services.NewThresholdService(thresholds, clock, log), log, validator.New())

	r := chi.NewRouter()
	r.Post("/measurements", mh.Create)
	r.Get("/measurements/station/{id}", mh.ListByStation)
	r.Get("/measurements/sensor/{id}", mh.ListBySensor)
	r.Get("/alerts", ah.List)
	r.Get("/alerts/summary", ah.Summary)
	r.Get("/alerts/{id}", ah.Get)
	r.Put("/alerts/{id}/resolve", ah.Resolve)
	r.Get("/thresholds", th.List)
	r.Get("/thresholds/{variableID}", th.Get)
	r.Put("/thresholds/{variableID}", th.Set)

	return &fixture{router: r, store: store, thresholds: thresholds, measurements: measurements, clock: clock}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestMeasurementHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode int
		errorCode    string
	}{
		{name: "breach", body: `{"sensor_id":7,"variable_id":"PM25","value":40}`, expectedCode: http.StatusCreated},
		{name: "zero value", body: `{"sensor_id":7,"variable_id":"PM25","value":0}`, expectedCode: http.StatusCreated},
		{name: "missing value", body: `{"sensor_id":7,"variable_id":"PM25"}`, expectedCode: http.StatusBadRequest, errorCode: "VALIDATION_ERROR"},
		{name: "missing sensor", body: `{"variable_id":"PM25","value":1}`, expectedCode: http.StatusBadRequest, errorCode: "VALIDATION_ERROR"},
		{name: "malformed", body: `{"sensor_id":`, expectedCode: http.StatusBadRequest, errorCode: "INVALID_INPUT"},
		{name: "string value", body: `{"sensor_id":7,"variable_id":"PM25","value":"40"}`, expectedCode: http.StatusBadRequest, errorCode: "INVALID_INPUT"},
		{name: "unknown sensor", body: `{"sensor_id":99,"variable_id":"PM25","value":40}`, expectedCode: http.StatusNotFound, errorCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec, env := f.do(t, http.MethodPost, "/measurements", tt.body)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, tt.errorCode == "", env.Success)
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, env.Error.Code)
				assert.Empty(t, f.store.Measurements())
				return
			}

			var m struct {
				ID         int64   `json:"id"`
				StationID  int64   `json:"station_id"`
				VariableID string  `json:"variable_id"`
				Value      float64 `json:"value"`
				Timestamp  string  `json:"timestamp"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &m))
			assert.NotZero(t, m.ID)
			assert.Equal(t, int64(3), m.StationID)
			assert.Equal(t, "PM25", m.VariableID)
			assert.NotEmpty(t, m.Timestamp)
		})
	}
}

func TestAlertHandler_Flow(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/measurements", `{"sensor_id":7,"variable_id":"PM25","value":500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	f.clock.Advance(time.Minute)
	rec, _ = f.do(t, http.MethodPost, "/measurements", `{"sensor_id":7,"variable_id":"PM25","value":600}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := f.do(t, http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []struct {
		ID         int64   `json:"id"`
		Severity   string  `json:"severity"`
		Message    string  `json:"message"`
		IsResolved bool    `json:"is_resolved"`
		ResolvedAt *string `json:"resolved_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "critical", alerts[0].Severity)
	assert.Equal(t, "value 500 PM25 exceeds critical threshold of 150", alerts[0].Message)

	id := alerts[0].ID
	path := "/alerts/" + jsonInt(id)

	rec, env = f.do(t, http.MethodPut, path+"/resolve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &alerts[0]))
	assert.True(t, alerts[0].IsResolved)
	require.NotNil(t, alerts[0].ResolvedAt)
	first := *alerts[0].ResolvedAt

	f.clock.Advance(time.Minute)
	rec, env = f.do(t, http.MethodPut, path+"/resolve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &alerts[0]))
	assert.Equal(t, first, *alerts[0].ResolvedAt)

	rec, _ = f.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = f.do(t, http.MethodPut, "/alerts/999/resolve", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/alerts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/alerts/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":0,"critical":0,"high":0,"medium":0,"low":0}`, string(env.Data))
}

func TestAlertHandler_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Fail["CreateMeasurement"] = assert.AnError

	rec, env := f.do(t, http.MethodPost, "/measurements", `{"sensor_id":7,"variable_id":"PM25","value":40}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "STORAGE_FAILURE", env.Error.Code)
	assert.NotContains(t, env.Error.Message, assert.AnError.Error())
}

func TestMeasurementHandler_List(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		f.measurements.Measurements = append(f.measurements.Measurements, &measurement.Measurement{
			ID: int64(i + 1), SensorID: 7, StationID: 3, VariableID: "PM25", MeasuredAt: base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}

	rec, env := f.do(t, http.MethodGet, "/measurements/station/3?startDate=2026-03-01&endDate=2026-03-02&variable_id=PM25", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data       []map[string]interface{} `json:"data"`
		TotalItems int64                    `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(2), page.TotalItems, "date only endDate includes the whole day")
	assert.Equal(t, "PM25", f.measurements.LastFilter.VariableID)
	assert.Equal(t, int64(3), f.measurements.LastFilter.StationID)

	rec, _ = f.do(t, http.MethodGet, "/measurements/sensor/7?page=1&page_size=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), f.measurements.LastFilter.SensorID)

	rec, env = f.do(t, http.MethodGet, "/measurements/station/3?startDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)

	rec, _ = f.do(t, http.MethodGet, "/measurements/station/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThresholdHandler(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPut, "/thresholds/PM25", `{"low":12,"medium":35,"high":55,"critical":150}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"variable_id":"PM25"`)
	assert.Equal(t, 35.0, *f.thresholds.Thresholds["PM25"].Medium)

	rec, env = f.do(t, http.MethodPut, "/thresholds/NO2", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = f.do(t, http.MethodPut, "/thresholds/NO2", `{"critical":200,"unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/thresholds/PM25", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/thresholds/CO", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, env = f.do(t, http.MethodGet, "/thresholds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
