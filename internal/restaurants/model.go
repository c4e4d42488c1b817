package restaurants

import "time"

// Restaurant is one tenant of the platform.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertRequest is the body for POST /restaurants and PUT /restaurants/:id.
type UpsertRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
