package handlers

import (
	"net/http"

	"github.com/tallervms/workshop-dashboard/internal/blob"
)

// FileHandler serves uploaded photos back from the blob store.
type FileHandler struct {
	blobs blob.Store
}

// NewFileHandler creates a new file handler.
func NewFileHandler(blobs blob.Store) *FileHandler {
	return &FileHandler{blobs: blobs}
}

// Serve streams the blob stored under the requested key.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, "Missing file key", http.StatusBadRequest)
		return
	}
	if err := h.blobs.Download(r.Context(), key, w); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
}
