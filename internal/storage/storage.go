package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// SnapshotLinker is implemented by backends that can hand out a temporary
// download link for a stored collection.
type SnapshotLinker interface {
	// SnapshotURL creates a temporary URL that allows GET requests for the
	// collection's JSON array directly from the storage provider.
	SnapshotURL(ctx context.Context, collection string, expires time.Duration) (string, error)
}
