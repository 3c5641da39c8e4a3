package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceStatus is the lifecycle state of a maintenance job.
type MaintenanceStatus string

const (
	StatusPending    MaintenanceStatus = "pending"
	StatusInProgress MaintenanceStatus = "in-progress"
	StatusCompleted  MaintenanceStatus = "completed"
)

// IsValidStatus checks if a status is one of the known lifecycle states.
func IsValidStatus(s MaintenanceStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Maintenance represents a maintenance job tying one vehicle to one
// technician, with photo evidence collected along the way.
//
// CompletedAt is set exactly when the job transitions to completed and is
// never cleared afterwards. Photos only grow: once a URL is persisted no
// operation removes it.
type Maintenance struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID    string             `bson:"vehicle_id" json:"vehicleId"`
	TechnicianID string             `bson:"technician_id" json:"technicianId"`
	Description  string             `bson:"description" json:"description"`
	Status       MaintenanceStatus  `bson:"status" json:"status"`
	Photos       []string           `bson:"photos" json:"photos"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	CompletedAt  *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// IsCompleted reports whether the job reached its terminal state.
func (m *Maintenance) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// MaintenanceDraft carries the fields for a new maintenance job. Photos are
// the not-yet-uploaded files selected by the caller; they are uploaded before
// the record itself is written.
type MaintenanceDraft struct {
	VehicleID    string
	TechnicianID string
	Description  string
	Status       MaintenanceStatus
	Photos       []PhotoUpload
}

// PhotoUpload is a locally selected image pending upload to the blob store.
type PhotoUpload struct {
	Filename string
	Data     []byte
}
