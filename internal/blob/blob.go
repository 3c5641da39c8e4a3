// Package blob abstracts the binary asset store used for maintenance photos.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// PhotoPrefix is the collection prefix under which maintenance photos are
// keyed.
const PhotoPrefix = "maintenance-photos"

// Store uploads blobs under caller-chosen keys and resolves them to publicly
// fetchable URLs. Blobs are never deleted or overwritten by this core;
// orphans left behind by record deletion are accepted.
type Store interface {
	Upload(ctx context.Context, key string, data io.Reader) (string, error)
	Download(ctx context.Context, key string, w io.Writer) error
}

// NewKey builds a collision-proof storage key for an uploaded file. The key
// keeps the original filename for operator readability but does not rely on
// it, or on wall-clock resolution, for uniqueness: a random suffix makes two
// same-named uploads in the same millisecond distinct.
func NewKey(prefix, filename string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s/%d-%s-%s", prefix, time.Now().UnixMilli(), suffix, filename)
}
