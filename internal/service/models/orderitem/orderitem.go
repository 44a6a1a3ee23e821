package orderitem

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem represents an item within an order. The price is a snapshot taken when the order was placed.
type OrderItem struct {
	ID                  uuid.UUID       `json:"id"`
	OrderID             uuid.UUID       `json:"orderId"`
	MenuItemID          uuid.UUID       `json:"menuItemId"`
	MenuItemName        string          `json:"menuItemName"`
	Quantity            int             `json:"quantity"`
	PriceAtOrderTime    decimal.Decimal `json:"priceAtOrderTime"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}
