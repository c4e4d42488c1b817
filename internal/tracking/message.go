package tracking

// LocationReport is the inbound driver→server message. The driver identity
// is never part of the payload; it comes from the authenticated connection.
type LocationReport struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationPush is the outbound server→observer message. Ts is the
// server-assigned receipt time in unix milliseconds and is authoritative;
// client clocks are never trusted.
type LocationPush struct {
	DriverID string  `json:"driverId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Ts       int64   `json:"ts"`
}
