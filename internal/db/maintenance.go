package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMaintenanceCollection implements MaintenanceCollection for MongoDB.
type MongoMaintenanceCollection struct {
	Collection *mongo.Collection
}

func (c *MongoMaintenanceCollection) find(ctx context.Context, filter bson.M) ([]models.Maintenance, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var maintenances []models.Maintenance
	if err := cursor.All(ctx, &maintenances); err != nil {
		return nil, err
	}
	return maintenances, nil
}

// FindMaintenances retrieves every maintenance document, newest first.
func (c *MongoMaintenanceCollection) FindMaintenances(ctx context.Context) ([]models.Maintenance, error) {
	return c.find(ctx, bson.M{})
}

// FindMaintenancesByTechnician retrieves the maintenance documents assigned
// to one technician, newest first.
func (c *MongoMaintenanceCollection) FindMaintenancesByTechnician(ctx context.Context, technicianID string) ([]models.Maintenance, error) {
	return c.find(ctx, bson.M{"technician_id": technicianID})
}

// FindMaintenanceByID finds a maintenance document by its id.
func (c *MongoMaintenanceCollection) FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var m models.Maintenance
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// InsertMaintenance inserts a maintenance document and returns its assigned id.
func (c *MongoMaintenanceCollection) InsertMaintenance(ctx context.Context, m models.Maintenance) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.InsertOne(ctx, m)
	if err != nil {
		return "", err
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

// PatchMaintenance applies a partial update to a maintenance document.
func (c *MongoMaintenanceCollection) PatchMaintenance(ctx context.Context, id string, fields bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMaintenance deletes a maintenance document by its id.
func (c *MongoMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
