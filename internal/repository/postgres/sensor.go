package postgres

import (
	"context"
	"database/sql"

	"github.com/vrisa/alertengine/internal/pkg/errors"
)

// SensorRepository reads the sensor to station directory. Sensors and
// stations are provisioned outside this service.
type SensorRepository struct {
	db      querier
	dialect Dialect
}

func NewSensorRepository(db *sql.DB, d Dialect) *SensorRepository {
	return &SensorRepository{db: db, dialect: d}
}

func (r *SensorRepository) LookupStation(ctx context.Context, sensorID int64) (int64, error) {
	var stationID int64
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT station_id FROM sensors WHERE id = ?`), sensorID).Scan(&stationID)
	if err == sql.ErrNoRows {
		return 0, errors.NotFound("Sensor")
	}
	if err != nil {
		return 0, errors.StorageFailure("Failed to look up sensor", err)
	}
	return stationID, nil
}
