package tracking

import (
	"sync"
	"time"
)

// DriverPosition is the last accepted report for a driver. UpdatedAt is the
// server receipt time, never a client-supplied timestamp.
type DriverPosition struct {
	DriverID  string
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}

// PositionTable holds the live position of every driver that has reported at
// least once. Entries are never evicted; observers derive staleness from
// UpdatedAt, not from absence.
type PositionTable struct {
	mu sync.RWMutex
	m  map[string]DriverPosition
}

// NewPositionTable creates an empty table.
func NewPositionTable() *PositionTable {
	return &PositionTable{m: make(map[string]DriverPosition)}
}

// Set records a new position for driverID at the given receipt time.
func (t *PositionTable) Set(driverID string, lat, lng float64, at time.Time) {
	t.mu.Lock()
	t.m[driverID] = DriverPosition{DriverID: driverID, Lat: lat, Lng: lng, UpdatedAt: at}
	t.mu.Unlock()
}

// Get returns the last position of driverID, if any report was accepted.
func (t *PositionTable) Get(driverID string) (DriverPosition, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.m[driverID]
	return p, ok
}

// Snapshot copies the current table contents.
func (t *PositionTable) Snapshot() []DriverPosition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]DriverPosition, 0, len(t.m))
	for _, p := range t.m {
		out = append(out, p)
	}
	return out
}

// Len returns the number of drivers that have ever reported.
func (t *PositionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}
