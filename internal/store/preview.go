package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tallervms/workshop-dashboard/internal/models"
)

// PhotoTray stages locally selected photos before they are submitted through
// Create or AttachPhotos. Each staged photo gets a local preview resource (a
// temp file the UI can display) that is released the moment the photo is
// discarded, drained for submission, or the tray is closed.
//
// The pending list and the preview list stay index-aligned across every
// mutation: preview i always belongs to pending photo i.
type PhotoTray struct {
	mu       sync.Mutex
	pending  []models.PhotoUpload
	previews []string
	closed   bool
}

// NewPhotoTray creates an empty tray.
func NewPhotoTray() *PhotoTray {
	return &PhotoTray{}
}

// Add stages a photo and materializes its local preview. It returns the
// preview path.
func (t *PhotoTray) Add(photo models.PhotoUpload) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "", fmt.Errorf("photo tray is closed")
	}
	f, err := os.CreateTemp("", "preview-*"+filepath.Ext(photo.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create preview: %w", err)
	}
	if _, err := f.Write(photo.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write preview: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close preview: %w", err)
	}
	t.pending = append(t.pending, photo)
	t.previews = append(t.previews, f.Name())
	return f.Name(), nil
}

// Remove discards the staged photo at index i, releasing its preview
// immediately. Both lists shift together, keeping the alignment.
func (t *PhotoTray) Remove(i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.pending) {
		return fmt.Errorf("no staged photo at index %d", i)
	}
	os.Remove(t.previews[i])
	t.pending = append(t.pending[:i], t.pending[i+1:]...)
	t.previews = append(t.previews[:i], t.previews[i+1:]...)
	return nil
}

// Previews returns the preview paths in staging order.
func (t *PhotoTray) Previews() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.previews))
	copy(out, t.previews)
	return out
}

// Len returns the number of staged photos.
func (t *PhotoTray) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Drain returns the staged photos in input order for submission and releases
// every preview. The tray is left empty and reusable.
func (t *PhotoTray) Drain() []models.PhotoUpload {
	t.mu.Lock()
	defer t.mu.Unlock()
	photos := t.pending
	for _, p := range t.previews {
		os.Remove(p)
	}
	t.pending = nil
	t.previews = nil
	return photos
}

// Close discards everything still staged. It is safe to call on every
// teardown path, including after Drain.
func (t *PhotoTray) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.previews {
		os.Remove(p)
	}
	t.pending = nil
	t.previews = nil
	t.closed = true
	return nil
}
