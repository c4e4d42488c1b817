package drivers

import "time"

// Driver is the registry snapshot entry for one delivery driver.
// Coordinates and LastUpdate are nil until a first location report is
// persisted.
type Driver struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
	LastUpdate *time.Time `json:"last_update"`
	Online     bool       `json:"online"`
}
