package store

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeBlobStore records uploads in order and can be made to fail after a
// given number of successful uploads.
type fakeBlobStore struct {
	mu        sync.Mutex
	keys      []string
	failAfter int // -1 never fails
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{failAfter: -1}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter >= 0 && len(f.keys) >= f.failAfter {
		return "", fmt.Errorf("blob store unavailable")
	}
	f.keys = append(f.keys, key)
	return "https://blobs.test/" + key, nil
}

func (f *fakeBlobStore) Download(ctx context.Context, key string, w io.Writer) error {
	return fmt.Errorf("not implemented")
}

// fakeMaintenanceCol is an in-memory MaintenanceCollection. findHook, when
// set, runs after the result snapshot is taken, which lets tests hold a
// fetch response in flight. findErr, when set, makes collection finds fail.
type fakeMaintenanceCol struct {
	mu       sync.Mutex
	docs     map[string]models.Maintenance
	findHook func()
	findErr  error
	inserts  int
}

func newFakeMaintenanceCol() *fakeMaintenanceCol {
	return &fakeMaintenanceCol{docs: make(map[string]models.Maintenance)}
}

func (f *fakeMaintenanceCol) snapshot(filter func(models.Maintenance) bool) []models.Maintenance {
	f.mu.Lock()
	out := make([]models.Maintenance, 0, len(f.docs))
	for _, m := range f.docs {
		if filter == nil || filter(m) {
			out = append(out, m)
		}
	}
	hook := f.findHook
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if hook != nil {
		hook()
	}
	return out
}

func (f *fakeMaintenanceCol) FindMaintenances(ctx context.Context) ([]models.Maintenance, error) {
	f.mu.Lock()
	err := f.findErr
	f.mu.Unlock()
	out := f.snapshot(nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeMaintenanceCol) FindMaintenancesByTechnician(ctx context.Context, technicianID string) ([]models.Maintenance, error) {
	return f.snapshot(func(m models.Maintenance) bool { return m.TechnicianID == technicianID }), nil
}

func (f *fakeMaintenanceCol) FindMaintenanceByID(ctx context.Context, id string) (*models.Maintenance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.docs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMaintenanceCol) InsertMaintenance(ctx context.Context, m models.Maintenance) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	f.docs[m.ID.Hex()] = m
	f.inserts++
	return m.ID.Hex(), nil
}

func (f *fakeMaintenanceCol) PatchMaintenance(ctx context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.docs[id]
	if !ok {
		return db.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "description":
			m.Description = value.(string)
		case "status":
			m.Status = value.(models.MaintenanceStatus)
		case "completed_at":
			t := value.(time.Time)
			m.CompletedAt = &t
		case "photos":
			m.Photos = value.([]string)
		case "vehicle_id":
			m.VehicleID = value.(string)
		case "technician_id":
			m.TechnicianID = value.(string)
		}
	}
	f.docs[id] = m
	return nil
}

func (f *fakeMaintenanceCol) DeleteMaintenance(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

// recordingNotifier captures lifecycle events in arrival order.
type recordingNotifier struct {
	mu        sync.Mutex
	created   []models.Maintenance
	completed []models.Maintenance
	deleted   []string
}

func (n *recordingNotifier) MaintenanceCreated(m models.Maintenance) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, m)
}

func (n *recordingNotifier) MaintenanceCompleted(m models.Maintenance) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, m)
}

func (n *recordingNotifier) MaintenanceDeleted(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, id)
}

// fakeUserCol is an in-memory UserCollection.
type fakeUserCol struct {
	mu   sync.Mutex
	docs map[string]models.User
}

func newFakeUserCol() *fakeUserCol {
	return &fakeUserCol{docs: make(map[string]models.User)}
}

func (f *fakeUserCol) FindUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.docs))
	for _, u := range f.docs {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserCol) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.docs {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeUserCol) CountUsers(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.docs)), nil
}

func (f *fakeUserCol) InsertUser(ctx context.Context, user models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	f.docs[user.ID.Hex()] = user
	return user.ID.Hex(), nil
}

func (f *fakeUserCol) PatchUser(ctx context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.docs[id]
	if !ok {
		return db.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			u.Name = value.(string)
		case "lastname":
			u.LastName = value.(string)
		case "email":
			u.Email = value.(string)
		case "rut":
			u.RUT = value.(string)
		case "role":
			u.Role = models.Role(value.(string))
		case "password_hash":
			u.PasswordHash = value.(string)
		}
	}
	f.docs[id] = u
	return nil
}

func (f *fakeUserCol) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

// fakeVehicleCol is an in-memory VehicleCollection.
type fakeVehicleCol struct {
	mu   sync.Mutex
	docs map[string]models.Vehicle
}

func newFakeVehicleCol() *fakeVehicleCol {
	return &fakeVehicleCol{docs: make(map[string]models.Vehicle)}
}

func (f *fakeVehicleCol) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Vehicle, 0, len(f.docs))
	for _, v := range f.docs {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVehicleCol) InsertVehicle(ctx context.Context, v models.Vehicle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = primitive.NewObjectID()
	f.docs[v.ID.Hex()] = v
	return v.ID.Hex(), nil
}

func (f *fakeVehicleCol) PatchVehicle(ctx context.Context, id string, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.docs[id]
	if !ok {
		return db.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "brand":
			v.Brand = value.(string)
		case "model":
			v.Model = value.(string)
		case "year":
			v.Year = value.(int)
		case "license_plate":
			v.LicensePlate = value.(string)
		case "type":
			v.Type = models.VehicleType(value.(string))
		}
	}
	f.docs[id] = v
	return nil
}

func (f *fakeVehicleCol) DeleteVehicle(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}
