package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
)

// MemoryStore is an in-memory ingest.Store with read committed visibility.
// A transaction sees committed rows plus its own pending writes, and its
// writes become visible to others only when it commits.
type MemoryStore struct {
	mu           sync.Mutex
	sensors      map[int64]int64
	thresholds   map[string]*threshold.Threshold
	measurements []*measurement.Measurement
	alerts       []*alert.Alert
	nextID       int64

	// Fail makes the named Tx method return the error
	Fail map[string]error
	// AfterFind runs after LatestUnresolved reads, to widen race windows
	AfterFind func()

	KeyLocks int
	Commits  int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sensors:    make(map[int64]int64),
		thresholds: make(map[string]*threshold.Threshold),
		Fail:       make(map[string]error),
	}
}

// AddSensor registers a sensor at a station
func (s *MemoryStore) AddSensor(sensorID, stationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors[sensorID] = stationID
}

// SetThreshold configures tiers directly
func (s *MemoryStore) SetThreshold(t *threshold.Threshold) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.thresholds[t.VariableID] = &cp
}

// InsertAlert adds a committed alert, e.g. one created before the test
func (s *MemoryStore) InsertAlert(a *alert.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	a.ID = s.nextID
	cp := *a
	s.alerts = append(s.alerts, &cp)
}

// Measurements returns a snapshot of committed measurements
func (s *MemoryStore) Measurements() []*measurement.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*measurement.Measurement, 0, len(s.measurements))
	for _, m := range s.measurements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// Alerts returns a snapshot of committed alerts in insertion order
func (s *MemoryStore) Alerts() []*alert.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*alert.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		cp := *a
		out = append(out, &cp)
	}
	return out
}

// UnresolvedFor counts committed unresolved alerts for a key
func (s *MemoryStore) UnresolvedFor(key alert.Key) int {
	n := 0
	for _, a := range s.Alerts() {
		if !a.IsResolved && a.StationID == key.StationID && a.VariableID == key.VariableID {
			n++
		}
	}
	return n
}

// WithinTx implements ingest.Store
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx ingest.Tx) error) error {
	tx := &memoryTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.measurements = append(s.measurements, tx.measurements...)
	s.alerts = append(s.alerts, tx.alerts...)
	s.Commits++
	return nil
}

func (s *MemoryStore) failure(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Fail[op]
}

func (s *MemoryStore) id() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

type memoryTx struct {
	store        *MemoryStore
	measurements []*measurement.Measurement
	alerts       []*alert.Alert
}

func (t *memoryTx) LookupStation(ctx context.Context, sensorID int64) (int64, error) {
	if err := t.store.failure("LookupStation"); err != nil {
		return 0, err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	stationID, ok := t.store.sensors[sensorID]
	if !ok {
		return 0, errors.NotFound("Sensor")
	}
	return stationID, nil
}

func (t *memoryTx) CreateMeasurement(ctx context.Context, m *measurement.Measurement) error {
	if err := t.store.failure("CreateMeasurement"); err != nil {
		return err
	}
	m.ID = t.store.id()
	cp := *m
	t.measurements = append(t.measurements, &cp)
	return nil
}

func (t *memoryTx) GetThreshold(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	return t.store.GetThreshold(ctx, variableID)
}

func (t *memoryTx) LatestUnresolved(ctx context.Context, key alert.Key) (*alert.Alert, error) {
	if err := t.store.failure("LatestUnresolved"); err != nil {
		return nil, err
	}

	t.store.mu.Lock()
	candidates := append(append([]*alert.Alert{}, t.store.alerts...), t.alerts...)
	t.store.mu.Unlock()

	var latest *alert.Alert
	for _, a := range candidates {
		if a.IsResolved || a.StationID != key.StationID || a.VariableID != key.VariableID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) ||
			(a.CreatedAt.Equal(latest.CreatedAt) && a.ID > latest.ID) {
			latest = a
		}
	}

	if t.store.AfterFind != nil {
		t.store.AfterFind()
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (t *memoryTx) CreateAlert(ctx context.Context, a *alert.Alert) error {
	if err := t.store.failure("CreateAlert"); err != nil {
		return err
	}
	a.ID = t.store.id()
	a.IsResolved = false
	cp := *a
	t.alerts = append(t.alerts, &cp)
	return nil
}

func (t *memoryTx) LockAlertKey(ctx context.Context, key alert.Key) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.KeyLocks++
	return nil
}

// GetByID implements alert.Repository
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Alert")
}

// List implements alert.Repository
func (s *MemoryStore) List(ctx context.Context) ([]*alert.Alert, error) {
	out := s.Alerts()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// MarkResolved implements alert.Repository
func (s *MemoryStore) MarkResolved(ctx context.Context, id int64, at time.Time) (bool, error) {
	if err := s.failure("MarkResolved"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alerts {
		if a.ID != id {
			continue
		}
		if a.IsResolved {
			return false, nil
		}
		a.IsResolved = true
		resolvedAt := at
		a.ResolvedAt = &resolvedAt
		return true, nil
	}
	return false, errors.NotFound("Alert")
}

// CountUnresolvedBySeverity implements alert.Repository
func (s *MemoryStore) CountUnresolvedBySeverity(ctx context.Context) (map[alert.Severity]int, error) {
	if err := s.failure("CountUnresolvedBySeverity"); err != nil {
		return nil, err
	}
	counts := make(map[alert.Severity]int)
	for _, a := range s.Alerts() {
		if !a.IsResolved {
			counts[a.Severity]++
		}
	}
	return counts, nil
}

// GetThreshold implements threshold.Resolver
func (s *MemoryStore) GetThreshold(ctx context.Context, variableID string) (*threshold.Threshold, error) {
	if err := s.failure("GetThreshold"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.thresholds[variableID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}
