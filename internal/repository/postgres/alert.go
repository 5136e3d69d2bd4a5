package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

const alertColumns = `id, station_id, variable_id, message, severity, is_resolved, created_at, resolved_at`

type AlertRepository struct {
	db      querier
	dialect Dialect
}

func NewAlertRepository(db *sql.DB, d Dialect) *AlertRepository {
	return &AlertRepository{db: db, dialect: d}
}

func (r *AlertRepository) CreateAlert(ctx context.Context, a *alert.Alert) error {
	query := r.dialect.rebind(`
		INSERT INTO alerts (station_id, variable_id, message, severity, is_resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	a.IsResolved = false
	a.ResolvedAt = nil
	err := r.db.QueryRowContext(ctx, query,
		a.StationID, a.VariableID, a.Message, a.Severity.String(), false, formatTime(a.CreatedAt),
	).Scan(&a.ID)
	if err != nil {
		return errors.StorageFailure("Failed to create alert", err)
	}
	return nil
}

func (r *AlertRepository) LatestUnresolved(ctx context.Context, key alert.Key) (*alert.Alert, error) {
	query := r.dialect.rebind(`
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE station_id = ? AND variable_id = ? AND is_resolved = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, key.StationID, key.VariableID, false))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.StorageFailure("Failed to look up active alert", err)
	}
	return a, nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	query := r.dialect.rebind(`SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.StorageFailure("Failed to get alert", err)
	}
	return a, nil
}

func (r *AlertRepository) List(ctx context.Context) ([]*alert.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+alertColumns+` FROM alerts ORDER BY id DESC`)
	if err != nil {
		return nil, errors.StorageFailure("Failed to list alerts", err)
	}
	defer rows.Close()

	alerts := []*alert.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.StorageFailure("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageFailure("Failed to list alerts", err)
	}
	return alerts, nil
}

func (r *AlertRepository) MarkResolved(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := r.dialect.rebind(`UPDATE alerts SET is_resolved = ?, resolved_at = ? WHERE id = ? AND is_resolved = ?`)

	result, err := r.db.ExecContext(ctx, query, true, formatTime(at), id, false)
	if err != nil {
		return false, errors.StorageFailure("Failed to resolve alert", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.StorageFailure("Failed to resolve alert", err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing changed: either already resolved or missing
	var exists int
	err = r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT 1 FROM alerts WHERE id = ?`), id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, errors.NotFound("Alert")
	}
	if err != nil {
		return false, errors.StorageFailure("Failed to resolve alert", err)
	}
	return false, nil
}

func (r *AlertRepository) CountUnresolvedBySeverity(ctx context.Context) (map[alert.Severity]int, error) {
	query := r.dialect.rebind(`SELECT severity, COUNT(*) FROM alerts WHERE is_resolved = ? GROUP BY severity`)

	rows, err := r.db.QueryContext(ctx, query, false)
	if err != nil {
		return nil, errors.StorageFailure("Failed to count alerts", err)
	}
	defer rows.Close()

	counts := make(map[alert.Severity]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, errors.StorageFailure("Failed to scan alert count", err)
		}
		severity, err := alert.ParseSeverity(name)
		if err != nil {
			return nil, errors.StorageFailure("Unexpected alert severity", err)
		}
		counts[severity] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var severity, createdAt string
	var resolvedAt sql.NullString

	err := row.Scan(&a.ID, &a.StationID, &a.VariableID, &a.Message, &severity, &a.IsResolved, &createdAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if a.Severity, err = alert.ParseSeverity(severity); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		t, err := parseTime(resolvedAt.String)
		if err != nil {
			return nil, err
		}
		a.ResolvedAt = &t
	}
	return &a, nil
}
