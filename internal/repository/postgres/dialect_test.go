package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT id FROM alerts WHERE station_id = ? AND variable_id = ? LIMIT ?"

	assert.Equal(t, query, DialectSQLite.rebind(query))
	assert.Equal(t,
		"SELECT id FROM alerts WHERE station_id = $1 AND variable_id = $2 LIMIT $3",
		DialectPostgres.rebind(query))
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 59, 59, 0, time.FixedZone("COT", -5*3600))
	earlier := formatTime(base)
	later := formatTime(base.Add(time.Microsecond))

	assert.Len(t, later, len(earlier))
	assert.Less(t, earlier, later)
	assert.Equal(t, "2026-03-01T14:59:59.000000Z", earlier)

	parsed, err := parseTime(later)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(base.Add(time.Microsecond)))
}

func TestAdvisoryKey_Stable(t *testing.T) {
	a := advisoryKey(testKey(1, "PM25"))
	assert.Equal(t, a, advisoryKey(testKey(1, "PM25")))
	assert.NotEqual(t, a, advisoryKey(testKey(2, "PM25")))
}
