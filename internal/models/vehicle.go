package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleType classifies a workshop vehicle.
type VehicleType string

const (
	VehicleSedan      VehicleType = "sedan"
	VehicleSUV        VehicleType = "suv"
	VehiclePickup     VehicleType = "pickup"
	VehicleVan        VehicleType = "van"
	VehicleTruck      VehicleType = "truck"
	VehicleMotorcycle VehicleType = "motorcycle"
)

// Vehicle represents a customer vehicle serviced by the workshop.
type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Brand        string             `bson:"brand" json:"brand"`
	Model        string             `bson:"model" json:"model"`
	Year         int                `bson:"year" json:"year"`
	LicensePlate string             `bson:"license_plate" json:"licensePlate"` // uniqueness expected but not enforced
	Type         VehicleType        `bson:"type" json:"type"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// VehicleDraft carries the caller-provided fields for a new or updated vehicle.
type VehicleDraft struct {
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	Year         int         `json:"year"`
	LicensePlate string      `json:"licensePlate"`
	Type         VehicleType `json:"type"`
}

// IsValidVehicleType checks if a vehicle type is one of the known kinds.
func IsValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleSedan, VehicleSUV, VehiclePickup, VehicleVan, VehicleTruck, VehicleMotorcycle:
		return true
	default:
		return false
	}
}

// Validate checks a draft before it is written to the store.
func (d VehicleDraft) Validate() error {
	if d.Brand == "" || d.Model == "" {
		return fmt.Errorf("brand and model are required")
	}
	if maxYear := time.Now().Year() + 1; d.Year < 1900 || d.Year > maxYear {
		return fmt.Errorf("year must be between 1900 and %d", maxYear)
	}
	if !IsValidVehicleType(d.Type) {
		return fmt.Errorf("unknown vehicle type %q", d.Type)
	}
	return nil
}

// Label returns the display name used by reports, e.g. "Toyota Hilux".
func (v *Vehicle) Label() string {
	return v.Brand + " " + v.Model
}
