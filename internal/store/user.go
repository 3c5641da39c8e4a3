package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// PasswordHasher turns a plaintext credential into its stored form. The user
// store never persists the plaintext itself.
type PasswordHasher func(password string) (string, error)

// UserStore owns the in-memory user collection. Creation is capped at
// models.MaxUsers records.
type UserStore struct {
	col  db.UserCollection
	hash PasswordHasher

	mu    sync.Mutex
	state state
	users []models.User
}

// NewUserStore creates an empty user store backed by the given collection.
func NewUserStore(col db.UserCollection, hash PasswordHasher) *UserStore {
	return &UserStore{col: col, hash: hash}
}

// Users returns the current snapshot.
func (s *UserStore) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users
}

// Loading reports whether an operation is in flight.
func (s *UserStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.loading
}

// Err returns the message recorded by the last failed operation, if any.
func (s *UserStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.errMsg
}

// FetchAll replaces the local collection with every user in the store.
func (s *UserStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	seq := s.state.beginFetch()
	s.mu.Unlock()

	users, err := s.col.FindUsers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.state.fetchSeq {
		return nil
	}
	if err != nil {
		s.state.fail(err)
		return err
	}
	s.state.settle()
	s.users = users
	return nil
}

// Create writes a new user, then refreshes the collection. The cap is
// checked against the store before anything is written; the plaintext
// password is hashed and discarded.
func (s *UserStore) Create(ctx context.Context, draft models.UserDraft) error {
	if !models.IsValidRole(draft.Role) {
		err := fmt.Errorf("unknown role %q", draft.Role)
		s.recordErr(err)
		return err
	}

	count, err := s.col.CountUsers(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}
	if count >= models.MaxUsers {
		s.recordErr(ErrUserLimit)
		return ErrUserLimit
	}

	hashed, err := s.hash(draft.Password)
	if err != nil {
		s.recordErr(err)
		return err
	}
	user := models.User{
		RUT:          draft.RUT,
		Name:         draft.Name,
		LastName:     draft.LastName,
		Email:        draft.Email,
		PasswordHash: hashed,
		Role:         draft.Role,
		CreatedAt:    time.Now(),
	}
	id, err := s.col.InsertUser(ctx, user)
	if err != nil {
		s.recordErr(err)
		return err
	}
	log.WithFields(log.Fields{"user_id": id, "role": user.Role}).Info("user created")
	return s.FetchAll(ctx)
}

// Update patches the given fields and refreshes the collection. The id and
// creation timestamp are never patched; a plaintext password, if present, is
// replaced by its hash.
func (s *UserStore) Update(ctx context.Context, id string, fields bson.M) error {
	delete(fields, "_id")
	delete(fields, "created_at")
	if password, ok := fields["password"].(string); ok {
		delete(fields, "password")
		if password != "" {
			hashed, err := s.hash(password)
			if err != nil {
				s.recordErr(err)
				return err
			}
			fields["password_hash"] = hashed
		}
	}
	if err := s.col.PatchUser(ctx, id, fields); err != nil {
		s.recordErr(err)
		return err
	}
	return s.FetchAll(ctx)
}

// Delete removes the user remotely, then drops it from the snapshot.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	if err := s.col.DeleteUser(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID.Hex() != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	s.state.settle()
	return nil
}

func (s *UserStore) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.fail(err)
}
