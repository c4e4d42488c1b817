package events

// OrderCreatedEvent is published to order.created.
type OrderCreatedEvent struct {
	OrderID      string  `json:"order_id"`
	RestaurantID string  `json:"restaurant_id"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
	CreatedAt    string  `json:"created_at"`
}

// OrderStatusChangedEvent is published to order.status_changed.
type OrderStatusChangedEvent struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	OldStatus    string `json:"old_status"`
	NewStatus    string `json:"new_status"`
	ChangedAt    string `json:"changed_at"`
}

// DriverAssignedEvent is published to order.driver_assigned.
type DriverAssignedEvent struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	DriverID     string `json:"driver_id"`
}
