package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/vrisa/alertengine/internal/api/handlers"
	"github.com/vrisa/alertengine/internal/api/router"
	"github.com/vrisa/alertengine/internal/config"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/validator"
	"github.com/vrisa/alertengine/internal/repository/postgres"
	"github.com/vrisa/alertengine/internal/services"
	"github.com/vrisa/alertengine/internal/worker"
	"github.com/vrisa/alertengine/migrations"
)

// @title VriSA Alert Engine API
// @version 1.0
// @description Measurement ingestion and threshold-based alerting
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	logger.Init(log)

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dialect := postgres.Dialect(cfg.Database.Driver)
	migrationsFS, err := migrations.GetFS(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Failed to load migrations: %v", err)
	}
	applied, err := postgres.RunMigrations(db, dialect, migrationsFS)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.WithFields(map[string]interface{}{
		"driver":  cfg.Database.Driver,
		"applied": applied,
	}).Info("Database ready")

	clock := clockwork.NewRealClock()

	// Repositories
	store := postgres.NewStore(db, dialect)
	alertRepo := postgres.NewAlertRepository(db, dialect)
	thresholdRepo := postgres.NewThresholdRepository(db, dialect)
	measurementRepo := postgres.NewMeasurementRepository(db, dialect)

	// Services
	ingestService := services.NewIngestService(store, cfg.Alerting.DedupWindow, clock, log)
	alertService := services.NewAlertService(alertRepo, clock, log)
	thresholdService := services.NewThresholdService(thresholdRepo, clock, log)
	measurementService := services.NewMeasurementService(measurementRepo)

	handler := router.New(cfg, log, &router.Handlers{
		Health:      handlers.NewHealthHandler(db, log),
		Measurement: handlers.NewMeasurementHandler(ingestService, measurementService, log),
		Alert:       handlers.NewAlertHandler(alertService, log),
		Threshold:   handlers.NewThresholdHandler(thresholdService, log, validator.New()),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if cfg.Alerting.GaugeSchedule != "" {
		gauge, err := worker.NewActiveAlertGauge(alertService, cfg.Alerting.GaugeSchedule, log)
		if err != nil {
			log.Fatalf("Failed to create active alert gauge: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			gauge.Start(ctx)
		}()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
		}).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorWithErr(err, "HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
	wg.Wait()
	log.Info("Server stopped")
}
