package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tallervms/workshop-dashboard/internal/db"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"github.com/tallervms/workshop-dashboard/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

const maxUploadBytes = 32 << 20

// MaintenanceHandler exposes the maintenance store over HTTP.
type MaintenanceHandler struct {
	maintenances *store.MaintenanceStore
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(maintenances *store.MaintenanceStore) *MaintenanceHandler {
	return &MaintenanceHandler{maintenances: maintenances}
}

// List refreshes and returns the maintenance collection, optionally filtered
// by ?technicianId=. An empty technician id means no filter.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	technicianID := r.URL.Query().Get("technicianId")
	if err := h.maintenances.FetchByTechnician(r.Context(), technicianID); err != nil {
		http.Error(w, "Failed to fetch maintenances", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.maintenances.Maintenances())
}

// Get loads one record into the focused slot and returns it.
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m, err := h.maintenances.FetchByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "Maintenance not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch maintenance", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Create accepts a multipart form with vehicleId, technicianId, description,
// status and zero or more "photos" files.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	photos, err := readPhotos(r.MultipartForm.File["photos"])
	if err != nil {
		http.Error(w, "Failed to read photos", http.StatusBadRequest)
		return
	}
	draft := models.MaintenanceDraft{
		VehicleID:    r.FormValue("vehicleId"),
		TechnicianID: r.FormValue("technicianId"),
		Description:  r.FormValue("description"),
		Status:       models.MaintenanceStatus(r.FormValue("status")),
		Photos:       photos,
	}
	if draft.VehicleID == "" || draft.TechnicianID == "" {
		http.Error(w, "vehicleId and technicianId are required", http.StatusBadRequest)
		return
	}
	if err := h.maintenances.Create(r.Context(), draft); err != nil {
		http.Error(w, "Failed to create maintenance", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, h.maintenances.Maintenances())
}

// Update patches arbitrary fields on a record.
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	if err := h.maintenances.UpdateFields(r.Context(), id, fields); err != nil {
		writeStoreError(w, err, "Failed to update maintenance")
		return
	}
	writeJSON(w, http.StatusOK, h.maintenances.Maintenances())
}

// UpdateDescription patches only the description.
func (h *MaintenanceHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.maintenances.UpdateDescription(r.Context(), id, req.Description); err != nil {
		writeStoreError(w, err, "Failed to update description")
		return
	}
	writeJSON(w, http.StatusOK, h.maintenances.Current())
}

// AttachPhotos accepts a multipart form with "photos" files and appends them
// to the record.
func (h *MaintenanceHandler) AttachPhotos(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	photos, err := readPhotos(r.MultipartForm.File["photos"])
	if err != nil {
		http.Error(w, "Failed to read photos", http.StatusBadRequest)
		return
	}
	if len(photos) == 0 {
		http.Error(w, "At least one photo is required", http.StatusBadRequest)
		return
	}
	if err := h.maintenances.AttachPhotos(r.Context(), id, photos); err != nil {
		writeStoreError(w, err, "Failed to attach photos")
		return
	}
	writeJSON(w, http.StatusOK, h.maintenances.Current())
}

// Complete transitions the record to its terminal state.
func (h *MaintenanceHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.maintenances.Complete(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to complete maintenance")
		return
	}
	writeJSON(w, http.StatusOK, h.maintenances.Maintenances())
}

// Delete removes a record.
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.maintenances.Remove(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete maintenance")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "Maintenance not found", http.StatusNotFound)
	case errors.Is(err, store.ErrCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, fallback, http.StatusBadGateway)
	}
}

func readPhotos(files []*multipart.FileHeader) ([]models.PhotoUpload, error) {
	photos := make([]models.PhotoUpload, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		photos = append(photos, models.PhotoUpload{Filename: header.Filename, Data: data})
	}
	return photos, nil
}
