package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

type MeasurementRepository struct {
	db      querier
	dialect Dialect
}

func NewMeasurementRepository(db *sql.DB, d Dialect) *MeasurementRepository {
	return &MeasurementRepository{db: db, dialect: d}
}

func (r *MeasurementRepository) CreateMeasurement(ctx context.Context, m *measurement.Measurement) error {
	query := r.dialect.rebind(`
		INSERT INTO measurements (sensor_id, station_id, variable_id, value, measured_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		m.SensorID, m.StationID, m.VariableID, m.Value, formatTime(m.MeasuredAt),
	).Scan(&m.ID)
	if err != nil {
		return errors.StorageFailure("Failed to record measurement", err)
	}
	return nil
}

func (r *MeasurementRepository) List(ctx context.Context, filter measurement.Filter, limit, offset int) ([]*measurement.Measurement, int, error) {
	where, args := measurementWhere(filter)

	var total int
	countQuery := r.dialect.rebind(`SELECT COUNT(*) FROM measurements` + where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.StorageFailure("Failed to count measurements", err)
	}

	query := r.dialect.rebind(`
		SELECT id, sensor_id, station_id, variable_id, value, measured_at
		FROM measurements` + where + `
		ORDER BY measured_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.StorageFailure("Failed to list measurements", err)
	}
	defer rows.Close()

	measurements := []*measurement.Measurement{}
	for rows.Next() {
		var m measurement.Measurement
		var measuredAt string
		if err := rows.Scan(&m.ID, &m.SensorID, &m.StationID, &m.VariableID, &m.Value, &measuredAt); err != nil {
			return nil, 0, errors.StorageFailure("Failed to scan measurement", err)
		}
		if m.MeasuredAt, err = parseTime(measuredAt); err != nil {
			return nil, 0, errors.StorageFailure("Failed to parse measurement time", err)
		}
		measurements = append(measurements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.StorageFailure("Failed to list measurements", err)
	}

	return measurements, total, nil
}

// measurementWhere builds the WHERE clause for a filter. End is exclusive.
func measurementWhere(filter measurement.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.StationID != 0 {
		conds = append(conds, "station_id = ?")
		args = append(args, filter.StationID)
	}
	if filter.SensorID != 0 {
		conds = append(conds, "sensor_id = ?")
		args = append(args, filter.SensorID)
	}
	if filter.VariableID != "" {
		conds = append(conds, "variable_id = ?")
		args = append(args, filter.VariableID)
	}
	if filter.Start != nil {
		conds = append(conds, "measured_at >= ?")
		args = append(args, formatTime(*filter.Start))
	}
	if filter.End != nil {
		conds = append(conds, "measured_at < ?")
		args = append(args, formatTime(*filter.End))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
