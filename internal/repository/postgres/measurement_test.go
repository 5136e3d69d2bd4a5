package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrisa/alertengine/internal/domain/measurement"
)

var measurementSensors = map[int64]int64{7: 3, 8: 3, 9: 4}

func TestMeasurementRepository_List(t *testing.T) {
	forEachDialect(t, measurementSensors, testMeasurementList)
}

func testMeasurementList(t *testing.T, db *sql.DB, d Dialect) {
	repo := NewMeasurementRepository(db, d)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := []measurement.Measurement{
		{SensorID: 7, StationID: 3, VariableID: "PM25", Value: 10, MeasuredAt: base},
		{SensorID: 7, StationID: 3, VariableID: "PM25", Value: 20, MeasuredAt: base.Add(time.Hour)},
		{SensorID: 8, StationID: 3, VariableID: "O3", Value: 30, MeasuredAt: base.Add(2 * time.Hour)},
		{SensorID: 7, StationID: 3, VariableID: "PM25", Value: 40, MeasuredAt: base.Add(24 * time.Hour)},
		{SensorID: 9, StationID: 4, VariableID: "PM25", Value: 50, MeasuredAt: base},
	}
	for i := range rows {
		require.NoError(t, repo.CreateMeasurement(ctx, &rows[i]))
		require.NotZero(t, rows[i].ID)
	}

	tests := []struct {
		name       string
		filter     measurement.Filter
		limit      int
		offset     int
		wantTotal  int
		wantValues []float64
	}{
		{name: "station newest first", filter: measurement.Filter{StationID: 3}, limit: 10, wantTotal: 4, wantValues: []float64{40, 30, 20, 10}},
		{name: "paged", filter: measurement.Filter{StationID: 3}, limit: 2, offset: 1, wantTotal: 4, wantValues: []float64{30, 20}},
		{name: "variable", filter: measurement.Filter{StationID: 3, VariableID: "O3"}, limit: 10, wantTotal: 1, wantValues: []float64{30}},
		{name: "sensor", filter: measurement.Filter{SensorID: 7}, limit: 10, wantTotal: 3, wantValues: []float64{40, 20, 10}},
		{
			name:       "date range end exclusive",
			filter:     measurement.Filter{StationID: 3, Start: ptrTime(base.Add(time.Hour)), End: ptrTime(base.Add(24 * time.Hour))},
			limit:      10,
			wantTotal:  2,
			wantValues: []float64{30, 20},
		},
		{
			name:       "end one microsecond past a reading includes it",
			filter:     measurement.Filter{StationID: 3, Start: ptrTime(base.Add(2 * time.Hour)), End: ptrTime(base.Add(2*time.Hour + time.Microsecond))},
			limit:      10,
			wantTotal:  1,
			wantValues: []float64{30},
		},
		{name: "unknown station", filter: measurement.Filter{StationID: 99}, limit: 10, wantTotal: 0, wantValues: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.List(ctx, tt.filter, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			values := []float64{}
			for _, m := range got {
				values = append(values, m.Value)
			}
			assert.Equal(t, tt.wantValues, values)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
