package documents

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisRepo stores both documents of a user in one hash, one field per kind.
type RedisRepo struct {
	Client redis.UniversalClient
	Prefix string
}

func (r *RedisRepo) key(userID string) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "resume"
	}
	return prefix + ":" + userID
}

// Get returns the payload stored for the user and kind.
func (r *RedisRepo) Get(ctx context.Context, userID string, kind Kind) ([]byte, error) {
	payload, err := r.Client.HGet(ctx, r.key(userID), string(kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// Put replaces the payload for the user and kind.
func (r *RedisRepo) Put(ctx context.Context, userID string, kind Kind, payload []byte) error {
	return r.Client.HSet(ctx, r.key(userID), string(kind), payload).Err()
}
