package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/util"
)

// ObjectRepo stores documents as JSON objects under a hashed user prefix.
type ObjectRepo struct {
	Store object.Store
}

func objectKey(userID string, kind Kind) string {
	return path.Join(util.HashUserKey(userID), string(kind)+".json")
}

// Get returns the payload stored for the user and kind.
func (r *ObjectRepo) Get(ctx context.Context, userID string, kind Kind) ([]byte, error) {
	return readObject(ctx, r.Store, objectKey(userID, kind))
}

// Put replaces the payload for the user and kind.
func (r *ObjectRepo) Put(ctx context.Context, userID string, kind Kind, payload []byte) error {
	_, err := r.Store.Put(ctx, objectKey(userID, kind), "application/json", bytes.NewReader(payload))
	return err
}

func readObject(ctx context.Context, store object.Store, key string) ([]byte, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
