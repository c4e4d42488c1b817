// Package trackclient is the client side of the live tracking channel: the
// observer's driver-position store and state classifier, and the driver's
// location reporting loop.
package trackclient

import "time"

// Status is the derived operational state of a driver.
type Status string

const (
	StatusFree    Status = "FREE"
	StatusBusy    Status = "BUSY"
	StatusOffline Status = "OFFLINE"
)

// DefaultStaleThreshold is how old a driver's last report may be before the
// driver is considered offline.
const DefaultStaleThreshold = 5 * time.Minute

// Offline reports whether a driver with the given last report time is
// considered offline at the query time. A driver that never reported
// (zero lastUpdate) is offline. The boundary is exclusive: a report exactly
// threshold old is still live.
func Offline(lastUpdate, now time.Time, threshold time.Duration) bool {
	if lastUpdate.IsZero() {
		return true
	}
	return now.Sub(lastUpdate) > threshold
}

// Classify derives a driver's status at the given query time. Staleness wins
// over assignment: a driver on an active delivery whose reports stopped is
// OFFLINE, not BUSY. Only an order in DELIVERING counts as an active
// delivery; READY and PREPARING assignments do not make a driver busy.
func Classify(lastUpdate time.Time, delivering bool, now time.Time, threshold time.Duration) Status {
	if Offline(lastUpdate, now, threshold) {
		return StatusOffline
	}
	if delivering {
		return StatusBusy
	}
	return StatusFree
}
