package measurement

import "time"

// Measurement is a single reading recorded by a sensor. StationID is
// resolved from the sensor at ingestion time.
type Measurement struct {
	ID         int64     `json:"id"`
	SensorID   int64     `json:"sensor_id"`
	StationID  int64     `json:"station_id"`
	VariableID string    `json:"variable_id"`
	Value      float64   `json:"value"`
	MeasuredAt time.Time `json:"measured_at"`
}

// Filter narrows a measurement listing. Zero fields are ignored.
type Filter struct {
	StationID  int64
	SensorID   int64
	VariableID string
	Start      *time.Time
	End        *time.Time
}
