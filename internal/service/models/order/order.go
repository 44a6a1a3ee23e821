package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swadseva/ordering/internal/service/models/currency"
	"github.com/swadseva/ordering/internal/service/models/customer"
	"github.com/swadseva/ordering/internal/service/models/delivery"
	"github.com/swadseva/ordering/internal/service/models/orderitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

// Type tells whether an order is delivered or picked up.
type Type string

const (
	TypeDelivery Type = "delivery"
	TypeTakeaway Type = "takeaway"
)

// Valid reports whether t is a known order type.
func (t Type) Valid() bool {
	return t == TypeDelivery || t == TypeTakeaway
}

// Status is the lifecycle status of an order.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
)

// Order represents a placed order.
type Order struct {
	ID            uuid.UUID              `json:"id"`
	CustomerID    uuid.UUID              `json:"customerId"`
	RestaurantID  uuid.UUID              `json:"restaurantId"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	TotalCurrency currency.Currency      `json:"totalCurrency"`
	Type          Type                   `json:"orderType"`
	Status        Status                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	OrderItems    []orderitem.OrderItem  `json:"orderItems"`
	Restaurant    *restaurant.Restaurant `json:"restaurant,omitempty"`
	Customer      *customer.Customer     `json:"customer,omitempty"`
	Delivery      *delivery.Delivery     `json:"delivery,omitempty"`
}
