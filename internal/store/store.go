// Package store holds the in-memory state of the dashboard: one state-holder
// per entity collection, synchronized against the external document store.
//
// Stores are plain injectable instances, not package singletons. Each one
// starts empty and not loading. Collections are swapped wholesale on refresh
// so readers always see an internally consistent snapshot; an operation that
// fails leaves the last good snapshot in place and records a human-readable
// message on the store's error slot.
package store

import (
	"errors"

	"github.com/tallervms/workshop-dashboard/internal/models"
)

var (
	// ErrCompleted is returned when a mutation targets a maintenance job
	// that already reached its terminal state.
	ErrCompleted = errors.New("maintenance is completed and can no longer be modified")

	// ErrUserLimit is returned when creating a user would exceed the fixed
	// cap. It is raised before any write reaches the store.
	ErrUserLimit = errors.New("user limit reached, no more users can be added")
)

// Notifier receives maintenance lifecycle events. A nil Notifier disables
// notifications.
type Notifier interface {
	MaintenanceCreated(m models.Maintenance)
	MaintenanceCompleted(m models.Maintenance)
	MaintenanceDeleted(id string)
}

// state carries the observable slots every store shares: the loading flag
// and the last error message. Mutated only under the owning store's mutex.
type state struct {
	loading bool
	errMsg  string
	// fetchSeq increases with every issued collection fetch; a fetch
	// response is applied only if its sequence is still the latest, so a
	// slow stale response can never overwrite a newer one. Point reads and
	// mutations do not claim a sequence: they must never invalidate a
	// refresh that is still in flight.
	fetchSeq uint64
}

func (s *state) begin() {
	s.loading = true
	s.errMsg = ""
}

func (s *state) beginFetch() uint64 {
	s.begin()
	s.fetchSeq++
	return s.fetchSeq
}

func (s *state) fail(err error) {
	s.loading = false
	s.errMsg = err.Error()
}

func (s *state) settle() {
	s.loading = false
}
