package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// GridFSStore implements Store on top of MongoDB GridFS. Uploaded blobs are
// served back by the HTTP layer under /files/, so the resolved URL is
// baseURL + "/files/" + key.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore creates a GridFS-backed blob store on the given database.
func NewGridFSStore(database *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(database)
	if err != nil {
		return nil, fmt.Errorf("gridfs.NewBucket error: %w", err)
	}
	return &GridFSStore{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload stores the blob under the given key and returns its public URL.
func (s *GridFSStore) Upload(ctx context.Context, key string, data io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		s.bucket.SetWriteDeadline(deadline)
	}
	if _, err := s.bucket.UploadFromStream(key, data); err != nil {
		return "", fmt.Errorf("gridfs upload of %q failed: %w", key, err)
	}
	return s.baseURL + "/files/" + key, nil
}

// Download streams the blob stored under key into w.
func (s *GridFSStore) Download(ctx context.Context, key string, w io.Writer) error {
	if deadline, ok := ctx.Deadline(); ok {
		s.bucket.SetReadDeadline(deadline)
	}
	if _, err := s.bucket.DownloadToStreamByName(key, w); err != nil {
		return fmt.Errorf("gridfs download of %q failed: %w", key, err)
	}
	return nil
}
