package menuitem

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem represents a dish offered by a restaurant.
type MenuItem struct {
	ID           uuid.UUID       `json:"id"`
	RestaurantID uuid.UUID       `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	IsAvailable  bool            `json:"isAvailable"`
}
