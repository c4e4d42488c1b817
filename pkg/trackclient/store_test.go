package trackclient

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestStoreSeedAndApply(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Seed([]DriverSnapshot{
		{DriverID: "d1", Name: "Ana", Lat: f64(1), Lng: f64(2), LastUpdate: &t0},
		{DriverID: "d2", Name: "Bruno"},
	})

	v, ok := s.Get("d1")
	if !ok || *v.Lat != 1 || *v.Lng != 2 || v.Name != "Ana" {
		t.Fatalf("seeded view wrong: %+v ok=%v", v, ok)
	}

	// A push moves the driver and keeps the snapshot name.
	s.Apply("d1", 3, 4, t0.Add(time.Minute))
	v, _ = s.Get("d1")
	if *v.Lat != 3 || *v.Lng != 4 || v.Name != "Ana" {
		t.Fatalf("applied view wrong: %+v", v)
	}

	// A push for an unseeded driver creates an entry.
	s.Apply("d3", 9, 9, t0)
	if _, ok := s.Get("d3"); !ok {
		t.Fatalf("push for unknown driver not stored")
	}
}

func TestStoreSeedNeverRegressesFresherPush(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A push arrives before the snapshot response.
	s.Apply("d1", 5, 6, t0.Add(time.Minute))

	stale := t0
	s.Seed([]DriverSnapshot{{DriverID: "d1", Name: "Ana", Lat: f64(1), Lng: f64(2), LastUpdate: &stale}})

	v, _ := s.Get("d1")
	if *v.Lat != 5 || *v.Lng != 6 {
		t.Fatalf("stale snapshot overwrote fresher push: %+v", v)
	}
	if v.Name != "Ana" {
		t.Fatalf("snapshot name not merged: %+v", v)
	}
}

func TestStoreMapPointsExcludesUnknownPositions(t *testing.T) {
	s := NewStore()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Seed([]DriverSnapshot{
		{DriverID: "d1", Name: "Ana", Lat: f64(1), Lng: f64(2), LastUpdate: &t0},
		{DriverID: "d2", Name: "Bruno"},
	})

	points := s.MapPoints()
	if len(points) != 1 || points[0].DriverID != "d1" {
		t.Fatalf("MapPoints = %+v, want only d1", points)
	}
	if len(s.Views()) != 2 {
		t.Fatalf("Views should include drivers without coordinates")
	}
}

func TestStoreStatus(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Apply("d1", 1, 2, now.Add(-time.Minute))

	if got := s.Status("d1", false, now, DefaultStaleThreshold); got != StatusFree {
		t.Fatalf("Status = %v, want FREE", got)
	}
	if got := s.Status("d1", true, now, DefaultStaleThreshold); got != StatusBusy {
		t.Fatalf("Status = %v, want BUSY", got)
	}
	if got := s.Status("missing", true, now, DefaultStaleThreshold); got != StatusOffline {
		t.Fatalf("Status for unknown driver = %v, want OFFLINE", got)
	}
}
