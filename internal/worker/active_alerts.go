package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/metrics"
)

// Summarizer counts unresolved alerts per severity
type Summarizer interface {
	Summary(ctx context.Context) (map[alert.Severity]int, error)
}

// ActiveAlertGauge periodically publishes the number of unresolved alerts
// per severity. It only reads the ledger.
type ActiveAlertGauge struct {
	source   Summarizer
	schedule string
	timeout  time.Duration
	publish  func(severity string, count float64)
	logger   *logger.Logger

	scheduler *cron.Cron
}

// NewActiveAlertGauge creates the worker. schedule accepts standard cron
// expressions and descriptors such as "@every 1m".
func NewActiveAlertGauge(source Summarizer, schedule string, log *logger.Logger) (*ActiveAlertGauge, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid gauge schedule %q: %w", schedule, err)
	}

	return &ActiveAlertGauge{
		source:   source,
		schedule: schedule,
		timeout:  10 * time.Second,
		publish:  metrics.SetActiveAlerts,
		logger:   log,
	}, nil
}

// Start refreshes once, then on every tick until ctx is cancelled
func (g *ActiveAlertGauge) Start(ctx context.Context) {
	g.logger.WithFields(map[string]interface{}{
		"schedule": g.schedule,
	}).Info("Starting active alert gauge worker")

	g.scheduler = cron.New()
	if _, err := g.scheduler.AddFunc(g.schedule, func() { g.Refresh(ctx) }); err != nil {
		g.logger.ErrorWithErr(err, "Failed to schedule active alert gauge")
		return
	}

	g.Refresh(ctx)
	g.scheduler.Start()

	<-ctx.Done()
	<-g.scheduler.Stop().Done()
	g.logger.Info("Active alert gauge worker stopped")
}

// Refresh publishes the current counts. Severities with no open alerts are
// published as zero so stale values do not linger.
func (g *ActiveAlertGauge) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	counts, err := g.source.Summary(ctx)
	if err != nil {
		g.logger.ErrorWithErr(err, "Failed to count active alerts")
		return
	}

	for _, s := range alert.Severities {
		g.publish(s.String(), float64(counts[s]))
	}
}
