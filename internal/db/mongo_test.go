package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/tallervms/workshop-dashboard/internal/models"
)

func TestConnectMongo_BadURI(t *testing.T) {
	client, err := ConnectMongo("mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestFindVehicles_NilCollection(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}
	_, err := coll.FindVehicles(context.Background())
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestInsertVehicle_NilCollection(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}
	_, err := coll.InsertVehicle(context.Background(), models.Vehicle{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestFindMaintenances_NilCollection(t *testing.T) {
	coll := &MongoMaintenanceCollection{Collection: nil}
	_, err := coll.FindMaintenances(context.Background())
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestInsertUser_NilCollection(t *testing.T) {
	coll := &MongoUserCollection{Collection: nil}
	_, err := coll.InsertUser(context.Background(), models.User{})
	if err == nil {
		t.Error("expected error when collection is nil")
	}
}

func TestPatchVehicle_InvalidID(t *testing.T) {
	coll := &MongoVehicleCollection{Collection: nil}
	err := coll.PatchVehicle(context.Background(), "not-a-hex-id", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for invalid id, got %v", err)
	}
}

func TestDeleteMaintenance_InvalidID(t *testing.T) {
	coll := &MongoMaintenanceCollection{Collection: nil}
	err := coll.DeleteMaintenance(context.Background(), "not-a-hex-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for invalid id, got %v", err)
	}
}

// Integration test (requires running MongoDB)
func TestVehicleRoundTrip_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
		return
	}
	client, err := ConnectMongo(uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
		return
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_workshop").Collection("vehicles")
	collection.Drop(context.Background())

	coll := &MongoVehicleCollection{Collection: collection}
	id, err := coll.InsertVehicle(context.Background(), models.Vehicle{
		Brand:        "Toyota",
		Model:        "Hilux",
		Year:         2021,
		LicensePlate: "AB-CD-12",
		Type:         models.VehiclePickup,
	})
	if err != nil {
		t.Fatalf("expected insert to succeed, got error: %v", err)
	}

	vehicles, err := coll.FindVehicles(context.Background())
	if err != nil {
		t.Fatalf("expected find to succeed, got error: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(vehicles))
	}
	if vehicles[0].ID.Hex() != id {
		t.Errorf("expected id %s, got %s", id, vehicles[0].ID.Hex())
	}

	if err := coll.DeleteVehicle(context.Background(), id); err != nil {
		t.Errorf("expected delete to succeed, got error: %v", err)
	}
	if err := coll.DeleteVehicle(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
