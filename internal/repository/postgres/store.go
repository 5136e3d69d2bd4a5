package postgres

import (
	"context"
	"database/sql"
	"hash/fnv"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

// Store implements ingest.Store on a database/sql pool
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

// WithinTx runs fn in a database transaction
func (s *Store) WithinTx(ctx context.Context, fn func(tx ingest.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageFailure("Failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newTx(sqlTx, s.dialect)); err != nil {
		sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return errors.StorageFailure("Failed to commit transaction", err)
	}
	return nil
}

// tx binds every repository to one *sql.Tx
type tx struct {
	sqlTx        *sql.Tx
	dialect      Dialect
	alerts       *AlertRepository
	measurements *MeasurementRepository
	sensors      *SensorRepository
	thresholds   *ThresholdRepository
}

func newTx(sqlTx *sql.Tx, d Dialect) *tx {
	return &tx{
		sqlTx:        sqlTx,
		dialect:      d,
		alerts:       &AlertRepository{db: sqlTx, dialect: d},
		measurements: &MeasurementRepository{db: sqlTx, dialect: d},
		sensors:      &SensorRepository{db: sqlTx, dialect: d},
		thresholds:   &ThresholdRepository{db: sqlTx, dialect: d},
	}
}

func (t *tx) CreateMeasurement(ctx context.Context, m *measurement.Measurement) error {
	return t.measurements.CreateMeasurement(ctx, m)
}

func (t *tx) LookupStation(ctx context.Context, sensorID int64) (int64, error) {
	return t.sensors.LookupStation(ctx, sensorID)
}

func (t *tx) GetThreshold(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	return t.thresholds.GetThreshold(ctx, variableID)
}

func (t *tx) LatestUnresolved(ctx context.Context, key alert.Key) (*alert.Alert, error) {
	return t.alerts.LatestUnresolved(ctx, key)
}

func (t *tx) CreateAlert(ctx context.Context, a *alert.Alert) error {
	return t.alerts.CreateAlert(ctx, a)
}

// LockAlertKey takes a transaction scoped advisory lock on postgres. SQLite
// already runs one transaction at a time.
func (t *tx) LockAlertKey(ctx context.Context, key alert.Key) error {
	if t.dialect != DialectPostgres {
		return nil
	}
	if _, err := t.sqlTx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryKey(key)); err != nil {
		return errors.StorageFailure("Failed to lock alert key", err)
	}
	return nil
}

func advisoryKey(key alert.Key) int64 {
	h := fnv.New64a()
	h.Write([]byte(key.String()))
	return int64(h.Sum64())
}
