package store

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleStore owns the in-memory vehicle collection.
type VehicleStore struct {
	col db.VehicleCollection

	mu       sync.Mutex
	state    state
	vehicles []models.Vehicle
}

// NewVehicleStore creates an empty vehicle store backed by the given
// collection.
func NewVehicleStore(col db.VehicleCollection) *VehicleStore {
	return &VehicleStore{col: col}
}

// Vehicles returns the current snapshot.
func (s *VehicleStore) Vehicles() []models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicles
}

// Loading reports whether an operation is in flight.
func (s *VehicleStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.loading
}

// Err returns the message recorded by the last failed operation, if any.
func (s *VehicleStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.errMsg
}

// FetchAll replaces the local collection with every vehicle in the store.
func (s *VehicleStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	seq := s.state.beginFetch()
	s.mu.Unlock()

	vehicles, err := s.col.FindVehicles(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.state.fetchSeq {
		// A newer fetch was issued while this one was in flight.
		return nil
	}
	if err != nil {
		s.state.fail(err)
		return err
	}
	s.state.settle()
	s.vehicles = vehicles
	return nil
}

// Create validates and writes a new vehicle, then refreshes the collection.
func (s *VehicleStore) Create(ctx context.Context, draft models.VehicleDraft) error {
	if err := draft.Validate(); err != nil {
		s.recordErr(err)
		return err
	}
	vehicle := models.Vehicle{
		Brand:        draft.Brand,
		Model:        draft.Model,
		Year:         draft.Year,
		LicensePlate: draft.LicensePlate,
		Type:         draft.Type,
		CreatedAt:    time.Now(),
	}
	id, err := s.col.InsertVehicle(ctx, vehicle)
	if err != nil {
		s.recordErr(err)
		return err
	}
	log.WithField("vehicle_id", id).Info("vehicle created")
	return s.FetchAll(ctx)
}

// Update patches the given fields and refreshes the collection. The id and
// creation timestamp are never patched.
func (s *VehicleStore) Update(ctx context.Context, id string, fields bson.M) error {
	delete(fields, "_id")
	delete(fields, "created_at")
	if err := s.col.PatchVehicle(ctx, id, fields); err != nil {
		s.recordErr(err)
		return err
	}
	return s.FetchAll(ctx)
}

// Delete removes the vehicle remotely, then drops it from the snapshot.
// Maintenance records referencing the vehicle are left as they are; reports
// resolve the dangling reference to a placeholder.
func (s *VehicleStore) Delete(ctx context.Context, id string) error {
	if err := s.col.DeleteVehicle(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		if v.ID.Hex() != id {
			kept = append(kept, v)
		}
	}
	s.vehicles = kept
	s.state.settle()
	return nil
}

func (s *VehicleStore) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.fail(err)
}
