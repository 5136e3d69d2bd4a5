package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/vrisa/alertengine/internal/api/handlers"
	"github.com/vrisa/alertengine/internal/config"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/validator"
	"github.com/vrisa/alertengine/internal/services"
	"github.com/vrisa/alertengine/internal/testutil"
)

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

func newTestRouter(pingErr error) http.Handler {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	clock := clockwork.NewFakeClock()
	store := testutil.NewMemoryStore()
	store.AddSensor(7, 3)

	cfg := &config.Config{Server: config.ServerConfig{FrontendURL: "http://localhost:5173"}}
	return New(cfg, log, &Handlers{
		Health: handlers.NewHealthHandler(pinger{err: pingErr}, log),
		Measurement: handlers.NewMeasurementHandler(
			services.NewIngestService(store, time.Hour, clock, log),
			services.NewMeasurementService(testutil.NewMockMeasurementRepository()),
			log,
		),
		Alert:     handlers.NewAlertHandler(services.NewAlertService(store, clock, log), log),
		Threshold: handlers.NewThresholdHandler(services.NewThresholdService(testutil.NewMockThresholdRepository(), clock, log), log, validator.New()),
	})
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(nil)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodPost, "/api/measurements", `{"sensor_id":7,"variable_id":"PM25","value":1}`, http.StatusCreated},
		{http.MethodGet, "/api/measurements/station/3", "", http.StatusOK},
		{http.MethodGet, "/api/measurements/sensor/7", "", http.StatusOK},
		{http.MethodGet, "/api/alerts", "", http.StatusOK},
		{http.MethodGet, "/api/alerts/summary", "", http.StatusOK},
		{http.MethodPut, "/api/alerts/1/resolve", "", http.StatusNotFound},
		{http.MethodGet, "/api/thresholds", "", http.StatusOK},
		{http.MethodDelete, "/api/alerts/1", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/alerts", "{}", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestRouter_ReadyzReportsDatabaseDown(t *testing.T) {
	r := newTestRouter(errors.New("connection refused"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(nil)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/alerts", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vrisa_http_requests_total{method="GET",path="/api/alerts`)
}
