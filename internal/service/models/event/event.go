package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type names an order event.
type Type string

const (
	TypeOrderCreated       Type = "order.created"
	TypeOrderStatusChanged Type = "order.status_changed"
)

// OrderEvent is published to RabbitMQ through the outbox.
type OrderEvent struct {
	Type           Type            `json:"type"`
	OrderID        uuid.UUID       `json:"orderId"`
	RestaurantID   uuid.UUID       `json:"restaurantId"`
	OrderType      string          `json:"orderType"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previousStatus,omitempty"`
	DeliveryStatus string          `json:"deliveryStatus,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DriverID       *uuid.UUID      `json:"driverId,omitempty"`
	OccurredAt     time.Time       `json:"occurredAt"`
}
