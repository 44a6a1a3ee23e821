package driver

import (
	"github.com/google/uuid"
)

// Availability of a delivery driver.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
)

// Driver represents a delivery driver.
type Driver struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	PhoneNumber   string       `json:"phoneNumber"`
	VehicleType   string       `json:"vehicleType,omitempty"`
	VehicleNumber string       `json:"vehicleNumber,omitempty"`
	LicenseNumber string       `json:"licenseNumber,omitempty"`
	Availability  Availability `json:"availability"`
	Lat           *float64     `json:"lat,omitempty"`
	Lng           *float64     `json:"lng,omitempty"`
}
