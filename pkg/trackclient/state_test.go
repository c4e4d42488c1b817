package trackclient

import (
	"testing"
	"time"
)

func TestOffline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lastUpdate time.Time
		want       bool
	}{
		{"never reported", time.Time{}, true},
		{"just reported", now, false},
		{"within threshold", now.Add(-4 * time.Minute), false},
		{"exactly at threshold", now.Add(-DefaultStaleThreshold), false},
		{"just past threshold", now.Add(-DefaultStaleThreshold - time.Millisecond), true},
		{"long gone", now.Add(-time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offline(tt.lastUpdate, now, DefaultStaleThreshold)
			if got != tt.want {
				t.Fatalf("Offline(%v) = %v, want %v", tt.lastUpdate, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := now.Add(-time.Minute)
	stale := now.Add(-10 * time.Minute)

	tests := []struct {
		name       string
		lastUpdate time.Time
		delivering bool
		want       Status
	}{
		{"fresh and idle", fresh, false, StatusFree},
		{"fresh and delivering", fresh, true, StatusBusy},
		{"stale and idle", stale, false, StatusOffline},
		{"stale wins over delivering", stale, true, StatusOffline},
		{"never reported", time.Time{}, true, StatusOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.lastUpdate, tt.delivering, now, DefaultStaleThreshold)
			if got != tt.want {
				t.Fatalf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}
