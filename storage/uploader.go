package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// SnapshotUploader stores exported tournament snapshots in an object store.
// The service keeps working without one; exports are simply disabled then.
// Snapshots are never deleted; each export writes a new timestamped key.
type SnapshotUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}
