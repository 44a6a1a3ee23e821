package customer

import (
	"time"

	"github.com/google/uuid"
)

const StatusActive = "active"

// Customer represents a person placing orders. The phone number identifies returning customers.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
