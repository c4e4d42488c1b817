package trackclient

import (
	"sync"
	"time"
)

// DriverSnapshot seeds the store from the registry's snapshot endpoint.
// Coordinates are nil for drivers that have never reported.
type DriverSnapshot struct {
	DriverID   string
	Name       string
	Lat        *float64
	Lng        *float64
	LastUpdate *time.Time
}

// DriverView is the freshest known state of one driver.
type DriverView struct {
	DriverID   string
	Name       string
	Lat        *float64
	Lng        *float64
	LastUpdate time.Time
}

// MapPoint is a plottable driver position.
type MapPoint struct {
	DriverID string
	Name     string
	Lat      float64
	Lng      float64
}

// Store is the per-observer cache of driver positions: seeded once from a
// snapshot, then updated incrementally from channel pushes. Entries are
// never expired; staleness is computed at read time.
type Store struct {
	mu      sync.RWMutex
	drivers map[string]DriverView
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{drivers: make(map[string]DriverView)}
}

// Seed loads the initial snapshot. Pushes applied before Seed are kept;
// snapshot data never overwrites a fresher push.
func (s *Store) Seed(snapshot []DriverSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range snapshot {
		existing, ok := s.drivers[d.DriverID]
		if ok && (d.LastUpdate == nil || existing.LastUpdate.After(*d.LastUpdate)) {
			existing.Name = d.Name
			s.drivers[d.DriverID] = existing
			continue
		}
		v := DriverView{DriverID: d.DriverID, Name: d.Name, Lat: d.Lat, Lng: d.Lng}
		if d.LastUpdate != nil {
			v.LastUpdate = *d.LastUpdate
		}
		s.drivers[d.DriverID] = v
	}
}

// Apply merges one push message into the store, preserving the driver name
// learned from the snapshot.
func (s *Store) Apply(driverID string, lat, lng float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.drivers[driverID]
	v.DriverID = driverID
	v.Lat = &lat
	v.Lng = &lng
	v.LastUpdate = at
	s.drivers[driverID] = v
}

// Get returns the view for one driver.
func (s *Store) Get(driverID string) (DriverView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.drivers[driverID]
	return v, ok
}

// Views returns every known driver, including those without coordinates.
func (s *Store) Views() []DriverView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DriverView, 0, len(s.drivers))
	for _, v := range s.drivers {
		out = append(out, v)
	}
	return out
}

// MapPoints returns only drivers with a plottable position. Drivers that
// never reported stay off the map but still show up in Views.
func (s *Store) MapPoints() []MapPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MapPoint, 0, len(s.drivers))
	for _, v := range s.drivers {
		if v.Lat == nil || v.Lng == nil {
			continue
		}
		out = append(out, MapPoint{DriverID: v.DriverID, Name: v.Name, Lat: *v.Lat, Lng: *v.Lng})
	}
	return out
}

// Status classifies one driver against the current order assignments.
// delivering should be true when the driver has an order in DELIVERING; the
// caller derives it from its own (possibly interval-polled) order snapshot.
func (s *Store) Status(driverID string, delivering bool, now time.Time, threshold time.Duration) Status {
	s.mu.RLock()
	v, ok := s.drivers[driverID]
	s.mu.RUnlock()
	if !ok {
		return StatusOffline
	}
	return Classify(v.LastUpdate, delivering, now, threshold)
}
