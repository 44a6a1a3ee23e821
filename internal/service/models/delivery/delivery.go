package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swadseva/ordering/internal/service/models/driver"
)

const StatusPending = "pending"

// Delivery represents the hand-off of a delivery order to a driver.
type Delivery struct {
	ID                    uuid.UUID       `json:"id"`
	OrderID               uuid.UUID       `json:"orderId"`
	DriverID              uuid.UUID       `json:"driverId"`
	Status                string          `json:"status"`
	Address               string          `json:"address"`
	Fee                   decimal.Decimal `json:"fee"`
	EstimatedDeliveryTime time.Time       `json:"estimatedDeliveryTime"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	Driver                *driver.Driver  `json:"driver,omitempty"`
}
