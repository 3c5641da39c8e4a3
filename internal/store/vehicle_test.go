package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func validVehicleDraft() models.VehicleDraft {
	return models.VehicleDraft{
		Brand:        "Toyota",
		Model:        "Hilux",
		Year:         2021,
		LicensePlate: "GHJK34",
		Type:         models.VehiclePickup,
	}
}

func TestVehicleStore_CreateAndFetch(t *testing.T) {
	col := newFakeVehicleCol()
	s := NewVehicleStore(col)

	require.NoError(t, s.Create(context.Background(), validVehicleDraft()))
	require.Len(t, s.Vehicles(), 1)
	v := s.Vehicles()[0]
	assert.Equal(t, "Toyota", v.Brand)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestVehicleStore_CreateRejectsInvalidDraft(t *testing.T) {
	s := NewVehicleStore(newFakeVehicleCol())

	tests := []struct {
		name   string
		mutate func(*models.VehicleDraft)
	}{
		{"missing brand", func(d *models.VehicleDraft) { d.Brand = "" }},
		{"year too small", func(d *models.VehicleDraft) { d.Year = 1800 }},
		{"year in far future", func(d *models.VehicleDraft) { d.Year = 3000 }},
		{"unknown type", func(d *models.VehicleDraft) { d.Type = "hovercraft" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validVehicleDraft()
			tt.mutate(&draft)
			assert.Error(t, s.Create(context.Background(), draft))
		})
	}
	assert.Empty(t, s.Vehicles())
}

func TestVehicleStore_UpdateNeverPatchesProtectedFields(t *testing.T) {
	col := newFakeVehicleCol()
	s := NewVehicleStore(col)
	require.NoError(t, s.Create(context.Background(), validVehicleDraft()))
	v := s.Vehicles()[0]

	require.NoError(t, s.Update(context.Background(), v.ID.Hex(), bson.M{
		"brand":      "Nissan",
		"_id":        "attacker-chosen",
		"created_at": "tampered",
	}))

	updated := s.Vehicles()[0]
	assert.Equal(t, "Nissan", updated.Brand)
	assert.Equal(t, v.ID, updated.ID)
	assert.Equal(t, v.CreatedAt, updated.CreatedAt)
}

func TestVehicleStore_DeleteRemovesFromSnapshot(t *testing.T) {
	col := newFakeVehicleCol()
	s := NewVehicleStore(col)
	require.NoError(t, s.Create(context.Background(), validVehicleDraft()))
	id := s.Vehicles()[0].ID.Hex()

	require.NoError(t, s.Delete(context.Background(), id))
	assert.Empty(t, s.Vehicles())

	// Deleting again surfaces not-found but leaves state intact.
	assert.Error(t, s.Delete(context.Background(), id))
	assert.Empty(t, s.Vehicles())
}
