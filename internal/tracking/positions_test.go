package tracking

import (
	"testing"
	"time"
)

func TestPositionTable(t *testing.T) {
	pt := NewPositionTable()
	if pt.Len() != 0 {
		t.Fatalf("new table not empty")
	}
	if _, ok := pt.Get("d1"); ok {
		t.Fatalf("Get on empty table returned a position")
	}

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pt.Set("d1", 1, 2, t0)
	pt.Set("d1", 3, 4, t0.Add(time.Second))
	pt.Set("d2", 5, 6, t0)

	p, ok := pt.Get("d1")
	if !ok || p.Lat != 3 || p.Lng != 4 || !p.UpdatedAt.Equal(t0.Add(time.Second)) {
		t.Fatalf("Get(d1) = %+v ok=%v", p, ok)
	}
	if pt.Len() != 2 {
		t.Fatalf("Len = %d, want 2", pt.Len())
	}

	snap := pt.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot has %d entries, want 2", len(snap))
	}
}
