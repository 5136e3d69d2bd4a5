package postgres

import (
	"context"
	"database/sql"

	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

type ThresholdRepository struct {
	db      querier
	dialect Dialect
}

func NewThresholdRepository(db *sql.DB, d Dialect) *ThresholdRepository {
	return &ThresholdRepository{db: db, dialect: d}
}

func (r *ThresholdRepository) GetThreshold(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	query := r.dialect.rebind(`
		SELECT variable_id, low, medium, high, critical, updated_at
		FROM thresholds WHERE variable_id = ?
	`)

	t, err := scanThreshold(r.db.QueryRowContext(ctx, query, variableID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageFailure("Failed to get threshold", err)
	}
	return t, nil
}

func (r *ThresholdRepository) List(ctx context.Context) ([]*threshold.Threshold, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT variable_id, low, medium, high, critical, updated_at
		FROM thresholds ORDER BY variable_id
	`)
	if err != nil {
		return nil, errors.StorageFailure("Failed to list thresholds", err)
	}
	defer rows.Close()

	thresholds := []*threshold.Threshold{}
	for rows.Next() {
		t, err := scanThreshold(rows)
		if err != nil {
			return nil, errors.StorageFailure("Failed to scan threshold", err)
		}
		thresholds = append(thresholds, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageFailure("Failed to list thresholds", err)
	}
	return thresholds, nil
}

func (r *ThresholdRepository) Upsert(ctx context.Context, t *threshold.Threshold) error {
	query := r.dialect.rebind(`
		INSERT INTO thresholds (variable_id, low, medium, high, critical, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (variable_id) DO UPDATE SET
			low = excluded.low,
			medium = excluded.medium,
			high = excluded.high,
			critical = excluded.critical,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		t.VariableID, t.Low, t.Medium, t.High, t.Critical, formatTime(t.UpdatedAt),
	)
	if err != nil {
		return errors.StorageFailure("Failed to save threshold", err)
	}
	return nil
}

func scanThreshold(row rowScanner) (*threshold.Threshold, error) {
	var t threshold.Threshold
	var low, medium, high, critical sql.NullFloat64
	var updatedAt string

	if err := row.Scan(&t.VariableID, &low, &medium, &high, &critical, &updatedAt); err != nil {
		return nil, err
	}

	t.Low = nullFloat(low)
	t.Medium = nullFloat(medium)
	t.High = nullFloat(high)
	t.Critical = nullFloat(critical)

	var err error
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
