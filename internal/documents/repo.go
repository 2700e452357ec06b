package documents

import "context"

// Repo stores raw JSON documents keyed by user and kind.
type Repo interface {
	// Get returns the stored payload or ErrNotFound.
	Get(ctx context.Context, userID string, kind Kind) ([]byte, error)
	// Put replaces the stored payload.
	Put(ctx context.Context, userID string, kind Kind, payload []byte) error
}
