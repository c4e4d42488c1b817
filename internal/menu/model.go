package menu

import "time"

// Category groups products on a restaurant's menu.
type Category struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

// Product is one menu item.
type Product struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	CategoryID   *string   `json:"category_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// CategoryRequest is the body for category create/update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProductRequest is the body for product create/update.
type ProductRequest struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}
