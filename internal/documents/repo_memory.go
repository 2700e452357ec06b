package documents

import (
	"context"
	"slices"
	"sync"
)

type memoryKey struct {
	userID string
	kind   Kind
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[memoryKey][]byte
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[memoryKey][]byte),
	}
}

// Get returns a copy of the stored payload.
func (r *MemoryRepo) Get(ctx context.Context, userID string, kind Kind) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.data[memoryKey{userID, kind}]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(payload), nil
}

// Put stores a copy of payload, replacing any previous value.
func (r *MemoryRepo) Put(ctx context.Context, userID string, kind Kind, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[memoryKey{userID, kind}] = slices.Clone(payload)
	return nil
}
