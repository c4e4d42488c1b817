package orders

import "time"

// Order statuses, in lifecycle order.
const (
	StatusPending    = "PENDING"
	StatusPreparing  = "PREPARING"
	StatusReady      = "READY"
	StatusDelivering = "DELIVERING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// transitions lists the legal next statuses for each status.
var transitions = map[string][]string{
	StatusPending:    {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusCompleted},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order.
type Order struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	Status       string    `json:"status"`
	DriverID     *string   `json:"driver_id,omitempty"`
	Total        float64   `json:"total"`
	Items        []Item    `json:"items,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item is one order line.
type Item struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateRequest is the body for POST /orders.
type CreateRequest struct {
	CustomerName string              `json:"customer_name"`
	Address      string              `json:"address"`
	Items        []CreateItemRequest `json:"items"`
}

// CreateItemRequest is one line of an order creation request.
type CreateItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// StatusRequest is the body for PATCH /orders/:id/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// AssignRequest is the body for PATCH /orders/:id/assign.
type AssignRequest struct {
	DriverID string `json:"driver_id"`
}

// Stats is the dashboard summary for one restaurant.
type Stats struct {
	TotalOrders   int     `json:"total_orders"`
	PendingOrders int     `json:"pending_orders"`
	ActiveOrders  int     `json:"active_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
}
