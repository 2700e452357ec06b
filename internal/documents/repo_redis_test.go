package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisRepo(t *testing.T) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &RedisRepo{Client: client, Prefix: "test"}, srv
}

func TestRedisRepoRoundTrip(t *testing.T) {
	repo, srv := newRedisRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "user-1", KindResume, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := repo.Put(ctx, "user-1", KindDesign, []byte(`{"b":2}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Get(ctx, "user-1", KindResume)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("unexpected payload %q", got)
	}
	if v := srv.HGet("test:user-1", "design"); v != `{"b":2}` {
		t.Fatalf("expected design field in hash, got %q", v)
	}
}

func TestRedisRepoMissing(t *testing.T) {
	repo, _ := newRedisRepo(t)
	if _, err := repo.Get(context.Background(), "nobody", KindResume); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisRepoServerDown(t *testing.T) {
	repo, srv := newRedisRepo(t)
	srv.Close()
	if err := repo.Put(context.Background(), "user-1", KindResume, []byte(`{}`)); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
