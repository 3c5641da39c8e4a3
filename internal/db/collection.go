package db

import (
	"context"

	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleCollection defines the interface for vehicle document operations.
type VehicleCollection interface {
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	PatchVehicle(ctx context.Context, id string, fields bson.M) error
	DeleteVehicle(ctx context.Context, id string) error
}

// UserCollection defines the interface for user document operations.
type UserCollection interface {
	FindUsers(ctx context.Context) ([]models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	InsertUser(ctx context.Context, user models.User) (string, error)
	PatchUser(ctx context.Context, id string, fields bson.M) error
	DeleteUser(ctx context.Context, id string) error
}

// MaintenanceCollection defines the interface for maintenance document
// operations. Finds return documents ordered by creation time descending.
type MaintenanceCollection interface {
	FindMaintenances(ctx context.Context) ([]models.Maintenance, error)
	FindMaintenancesByTechnician(ctx context.Context, technicianID string) ([]models.Maintenance, error)
	FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error)
	InsertMaintenance(ctx context.Context, m models.Maintenance) (string, error)
	PatchMaintenance(ctx context.Context, id string, fields bson.M) error
	DeleteMaintenance(ctx context.Context, id string) error
}
