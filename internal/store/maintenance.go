package store

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tallervms/workshop-dashboard/internal/blob"
	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// MaintenanceStore owns the canonical in-memory maintenance collection plus
// the single focused record used by detail views. All mutations go through
// the external document store first; local state is re-synchronized on
// success, either by a full refresh or by a targeted patch.
type MaintenanceStore struct {
	col      db.MaintenanceCollection
	blobs    blob.Store
	notifier Notifier

	// allowCompletedWrites skips the terminal-state guard, intended for
	// administrative correction flows only.
	allowCompletedWrites bool

	mu           sync.Mutex
	state        state
	maintenances []models.Maintenance
	current      *models.Maintenance
}

// MaintenanceOption configures a MaintenanceStore.
type MaintenanceOption func(*MaintenanceStore)

// WithNotifier publishes lifecycle events through n.
func WithNotifier(n Notifier) MaintenanceOption {
	return func(s *MaintenanceStore) { s.notifier = n }
}

// WithAdminOverride allows mutations against completed records.
func WithAdminOverride() MaintenanceOption {
	return func(s *MaintenanceStore) { s.allowCompletedWrites = true }
}

// NewMaintenanceStore creates an empty maintenance store backed by the given
// document collection and blob store.
func NewMaintenanceStore(col db.MaintenanceCollection, blobs blob.Store, opts ...MaintenanceOption) *MaintenanceStore {
	s := &MaintenanceStore{col: col, blobs: blobs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Maintenances returns the current snapshot, newest first.
func (s *MaintenanceStore) Maintenances() []models.Maintenance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintenances
}

// Current returns the focused record, or nil when none is loaded.
func (s *MaintenanceStore) Current() *models.Maintenance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether an operation is in flight.
func (s *MaintenanceStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.loading
}

// Err returns the message recorded by the last failed operation, if any.
func (s *MaintenanceStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.errMsg
}

// FetchAll replaces the local collection with every maintenance record,
// ordered by creation time descending.
func (s *MaintenanceStore) FetchAll(ctx context.Context) error {
	return s.fetch(ctx, "")
}

// FetchByTechnician replaces the local collection with the records assigned
// to the given technician. An empty id means no filter.
func (s *MaintenanceStore) FetchByTechnician(ctx context.Context, technicianID string) error {
	return s.fetch(ctx, technicianID)
}

func (s *MaintenanceStore) fetch(ctx context.Context, technicianID string) error {
	s.mu.Lock()
	seq := s.state.beginFetch()
	s.mu.Unlock()

	var (
		maintenances []models.Maintenance
		err          error
	)
	if technicianID == "" {
		maintenances, err = s.col.FindMaintenances(ctx)
	} else {
		maintenances, err = s.col.FindMaintenancesByTechnician(ctx, technicianID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.state.fetchSeq {
		// A newer fetch was issued while this one was in flight; its
		// result owns the snapshot and the observable slots, this one is
		// discarded whether it succeeded or failed.
		return nil
	}
	if err != nil {
		s.state.fail(err)
		return err
	}
	s.state.settle()
	s.maintenances = maintenances
	return nil
}

// FetchByID loads one record into the focused slot. On not-found the slot is
// cleared and the error recorded.
func (s *MaintenanceStore) FetchByID(ctx context.Context, id string) (*models.Maintenance, error) {
	s.mu.Lock()
	s.state.begin()
	s.mu.Unlock()

	m, err := s.col.FindMaintenanceByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.fail(err)
		s.current = nil
		return nil, err
	}
	s.state.settle()
	s.current = m
	return m, nil
}

// Create uploads every draft photo, writes the new record, then refreshes
// the collection. The record write only runs after all uploads succeed, so a
// failed upload never leaves a record referencing part of its photos.
func (s *MaintenanceStore) Create(ctx context.Context, draft models.MaintenanceDraft) error {
	s.mu.Lock()
	s.state.begin()
	s.mu.Unlock()

	status := draft.Status
	if !models.IsValidStatus(status) {
		status = models.StatusPending
	}

	urls, err := s.uploadPhotos(ctx, draft.Photos)
	if err != nil {
		s.recordErr(err)
		return err
	}

	m := models.Maintenance{
		VehicleID:    draft.VehicleID,
		TechnicianID: draft.TechnicianID,
		Description:  draft.Description,
		Status:       status,
		Photos:       urls,
		CreatedAt:    time.Now(),
	}
	id, err := s.col.InsertMaintenance(ctx, m)
	if err != nil {
		s.recordErr(err)
		return err
	}
	log.WithFields(log.Fields{"maintenance_id": id, "photos": len(urls)}).Info("maintenance created")
	if s.notifier != nil {
		s.notifier.MaintenanceCreated(m)
	}
	return s.FetchAll(ctx)
}

// UpdateFields patches arbitrary fields on a record, refreshes the
// collection, and reloads the focused slot when it matches. The id and
// creation timestamp are never patched. Completed records are locked.
func (s *MaintenanceStore) UpdateFields(ctx context.Context, id string, fields bson.M) error {
	if err := s.guardNotCompleted(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	delete(fields, "_id")
	delete(fields, "created_at")
	if err := s.col.PatchMaintenance(ctx, id, fields); err != nil {
		s.recordErr(err)
		return err
	}
	if err := s.FetchAll(ctx); err != nil {
		return err
	}
	if cur := s.Current(); cur != nil && cur.ID.Hex() == id {
		_, err := s.FetchByID(ctx, id)
		return err
	}
	return nil
}

// UpdateDescription patches only the description, then updates the local
// collection and focused slot in place instead of refetching. Completed
// records are locked.
func (s *MaintenanceStore) UpdateDescription(ctx context.Context, id, description string) error {
	if err := s.guardNotCompleted(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	if err := s.col.PatchMaintenance(ctx, id, bson.M{"description": description}); err != nil {
		s.recordErr(err)
		return err
	}
	s.patchLocal(id, func(m *models.Maintenance) {
		m.Description = description
	})
	return nil
}

// AttachPhotos uploads the new photos, appends their URLs to the record's
// remote photo sequence, then appends them locally as well. Input order is
// preserved end to end. Completed records are locked.
func (s *MaintenanceStore) AttachPhotos(ctx context.Context, id string, photos []models.PhotoUpload) error {
	if err := s.guardNotCompleted(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	s.state.begin()
	s.mu.Unlock()

	urls, err := s.uploadPhotos(ctx, photos)
	if err != nil {
		s.recordErr(err)
		return err
	}

	// The remote record is the source of truth for the existing sequence;
	// the local copy could be stale.
	remote, err := s.col.FindMaintenanceByID(ctx, id)
	if err != nil {
		s.recordErr(err)
		return err
	}
	combined := append(append([]string{}, remote.Photos...), urls...)
	if err := s.col.PatchMaintenance(ctx, id, bson.M{"photos": combined}); err != nil {
		s.recordErr(err)
		return err
	}

	s.patchLocal(id, func(m *models.Maintenance) {
		m.Photos = append(append([]string{}, m.Photos...), urls...)
	})
	return nil
}

// Complete moves a record to its terminal state and stamps the completion
// time, remotely and locally. It is idempotent: completing an already
// completed record rewrites the same status with a fresh timestamp.
func (s *MaintenanceStore) Complete(ctx context.Context, id string) error {
	now := time.Now()
	fields := bson.M{"status": models.StatusCompleted, "completed_at": now}
	if err := s.col.PatchMaintenance(ctx, id, fields); err != nil {
		s.recordErr(err)
		return err
	}
	s.patchLocal(id, func(m *models.Maintenance) {
		m.Status = models.StatusCompleted
		m.CompletedAt = &now
	})
	log.WithField("maintenance_id", id).Info("maintenance completed")
	if s.notifier != nil {
		if cur := s.findLocal(id); cur != nil {
			s.notifier.MaintenanceCompleted(*cur)
		} else if remote, err := s.col.FindMaintenanceByID(ctx, id); err == nil {
			s.notifier.MaintenanceCompleted(*remote)
		}
	}
	return nil
}

// Remove deletes the record remotely, drops it from the snapshot, and clears
// the focused slot when it referenced this id. Photos already uploaded for
// the record are left in the blob store.
func (s *MaintenanceStore) Remove(ctx context.Context, id string) error {
	if err := s.col.DeleteMaintenance(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	kept := make([]models.Maintenance, 0, len(s.maintenances))
	for _, m := range s.maintenances {
		if m.ID.Hex() != id {
			kept = append(kept, m)
		}
	}
	s.maintenances = kept
	if s.current != nil && s.current.ID.Hex() == id {
		s.current = nil
	}
	s.state.settle()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.MaintenanceDeleted(id)
	}
	return nil
}

// uploadPhotos uploads every photo in input order and returns the resulting
// URLs in the same order. The first failure aborts the whole batch.
func (s *MaintenanceStore) uploadPhotos(ctx context.Context, photos []models.PhotoUpload) ([]string, error) {
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		key := blob.NewKey(blob.PhotoPrefix, photo.Filename)
		url, err := s.blobs.Upload(ctx, key, bytes.NewReader(photo.Data))
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// guardNotCompleted rejects mutations against completed records. Completion
// is terminal, so a locally completed copy is decisive without a round trip;
// a locally pending copy could be stale and is confirmed against the
// document store. Unknown records pass the guard so that the subsequent
// patch can surface not-found itself.
func (s *MaintenanceStore) guardNotCompleted(ctx context.Context, id string) error {
	if s.allowCompletedWrites {
		return nil
	}
	if local := s.findLocal(id); local != nil && local.IsCompleted() {
		return ErrCompleted
	}
	remote, err := s.col.FindMaintenanceByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		return err
	}
	if remote.IsCompleted() {
		return ErrCompleted
	}
	return nil
}

// findLocal returns a copy of the record from the focused slot or the
// collection snapshot, or nil when it is not loaded.
func (s *MaintenanceStore) findLocal(id string) *models.Maintenance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID.Hex() == id {
		m := *s.current
		return &m
	}
	for _, m := range s.maintenances {
		if m.ID.Hex() == id {
			found := m
			return &found
		}
	}
	return nil
}

// patchLocal applies fn to the record in the collection snapshot and the
// focused slot. The collection is rebuilt rather than mutated in place so
// concurrent readers keep a consistent view of the old snapshot.
func (s *MaintenanceStore) patchLocal(id string, fn func(*models.Maintenance)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]models.Maintenance, len(s.maintenances))
	for i, m := range s.maintenances {
		if m.ID.Hex() == id {
			fn(&m)
		}
		updated[i] = m
	}
	s.maintenances = updated
	if s.current != nil && s.current.ID.Hex() == id {
		cur := *s.current
		fn(&cur)
		s.current = &cur
	}
	s.state.settle()
}

func (s *MaintenanceStore) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.fail(err)
}
