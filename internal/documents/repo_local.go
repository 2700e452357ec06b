package documents

import (
	"bytes"
	"context"

	"resume-builder/internal/shared/storage/object"
)

// Fixed keys of the local fallback store.
const (
	LocalResumeKey = "resumeData"
	LocalDesignKey = "designState"
)

// LocalRepo is the single-user fallback store used when no remote backend
// is configured. The user id is ignored; each kind lives under a fixed key.
type LocalRepo struct {
	Store object.Store
}

func localKey(kind Kind) string {
	if kind == KindDesign {
		return LocalDesignKey
	}
	return LocalResumeKey
}

// Get returns the payload stored under the kind's fixed key.
func (r *LocalRepo) Get(ctx context.Context, _ string, kind Kind) ([]byte, error) {
	return readObject(ctx, r.Store, localKey(kind))
}

// Put replaces the payload under the kind's fixed key.
func (r *LocalRepo) Put(ctx context.Context, _ string, kind Kind, payload []byte) error {
	_, err := r.Store.Put(ctx, localKey(kind), "application/json", bytes.NewReader(payload))
	return err
}
