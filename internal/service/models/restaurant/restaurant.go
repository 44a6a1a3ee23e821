package restaurant

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a restaurant. Only active restaurants are listed in the catalog.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Restaurant represents a restaurant or the campus canteen.
type Restaurant struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address,omitempty"`
	CuisineType    string          `json:"cuisineType,omitempty"`
	OperatingHours string          `json:"operatingHours,omitempty"`
	Status         Status          `json:"status"`
	Rating         decimal.Decimal `json:"rating"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	IsCanteen      bool            `json:"isCanteen"`
	CreatedAt      time.Time       `json:"createdAt"`
}
