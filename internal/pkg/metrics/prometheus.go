package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vrisa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vrisa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vrisa",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Ingestion metrics
	measurementsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vrisa",
			Subsystem: "ingest",
			Name:      "measurements_total",
			Help:      "Ingestion attempts by outcome",
		},
		[]string{"outcome"},
	)

	ingestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vrisa",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Duration of the ingestion transaction in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// Alert metrics
	alertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vrisa",
			Subsystem: "alert",
			Name:      "created_total",
			Help:      "Alerts created by severity",
		},
		[]string{"severity"},
	)

	alertsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vrisa",
			Subsystem: "alert",
			Name:      "suppressed_total",
			Help:      "Breaches suppressed by an active alert; escalation=true when the breach was more severe",
		},
		[]string{"escalation"},
	)

	alertsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vrisa",
			Subsystem: "alert",
			Name:      "resolved_total",
			Help:      "Alerts transitioned to resolved",
		},
	)

	activeAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vrisa",
			Subsystem: "alert",
			Name:      "active_count",
			Help:      "Number of unresolved alerts",
		},
		[]string{"severity"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Label by route pattern so ids do not explode cardinality
		routePattern := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			routePattern = rctx.RoutePattern()
		}
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordIngest records the outcome and duration of one ingestion call
func RecordIngest(outcome string, duration time.Duration) {
	measurementsIngested.WithLabelValues(outcome).Inc()
	ingestDuration.Observe(duration.Seconds())
}

// RecordAlertCreated records a newly created alert
func RecordAlertCreated(severity string) {
	alertsCreated.WithLabelValues(severity).Inc()
}

// RecordAlertSuppressed records a breach suppressed by deduplication
func RecordAlertSuppressed(escalation bool) {
	alertsSuppressed.WithLabelValues(strconv.FormatBool(escalation)).Inc()
}

// RecordAlertResolved records an alert resolution
func RecordAlertResolved() {
	alertsResolved.Inc()
}

// SetActiveAlerts sets the gauge for unresolved alerts by severity
func SetActiveAlerts(severity string, count float64) {
	activeAlerts.WithLabelValues(severity).Set(count)
}
