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

// VehicleHandler exposes the vehicle store over HTTP.
type VehicleHandler struct {
	vehicles *store.VehicleStore
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles *store.VehicleStore) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List refreshes and returns every vehicle.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicles.FetchAll(r.Context()); err != nil {
		http.Error(w, "Failed to fetch vehicles", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.vehicles.Vehicles())
}

// Create adds a new vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var draft models.VehicleDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.vehicles.Create(r.Context(), draft); err != nil {
		if draft.Validate() != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create vehicle", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, h.vehicles.Vehicles())
}

// Update patches vehicle fields.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	if err := h.vehicles.Update(r.Context(), id, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update vehicle", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.vehicles.Vehicles())
}

// Delete removes a vehicle.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete vehicle", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
