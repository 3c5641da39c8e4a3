package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"github.com/tallervms/workshop-dashboard/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler exposes the user store over HTTP.
type UserHandler struct {
	users *store.UserStore
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List refreshes and returns every user. Password hashes never leave the
// server: the model excludes them from JSON.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.users.FetchAll(r.Context()); err != nil {
		http.Error(w, "Failed to fetch users", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.users.Users())
}

// Create adds a new user, subject to the fixed cap.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var draft models.UserDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.users.Create(r.Context(), draft); err != nil {
		if errors.Is(err, store.ErrUserLimit) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create user", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, h.users.Users())
}

// Update patches user fields.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var fields bson.M
	if err := json.Unmarshal(body, &fields); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.users.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update user", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.users.Users())
}

// Delete removes a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete user", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
