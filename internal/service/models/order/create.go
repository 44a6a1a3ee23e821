package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderInput is a checkout request as submitted by the cart.
type CreateOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	RestaurantID    uuid.UUID
	OrderType       Type
	Items           []LineInput
	DeliveryAddress string
	Notes           string
}

// LineInput is one cart line in a checkout request. Price is the unit price the client saw.
type LineInput struct {
	MenuItemID   uuid.UUID
	Price        decimal.Decimal
	Quantity     int
	Instructions string
}
