package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.counts, key)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestFixedWindowAllow(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	client := &Client{store: store}

	for i := 0; i < 3; i++ {
		allowed, _, err := client.FixedWindowAllow(context.Background(), "cart:token-1", 3, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, count, err := client.FixedWindowAllow(context.Background(), "cart:token-1", 3, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("fourth request should be rejected")
	}
	if count != 4 {
		t.Fatalf("unexpected count %d", count)
	}

	if ttl := store.expires[client.RateLimitKey("cart:token-1")]; ttl != time.Minute {
		t.Fatalf("expected window ttl on first increment, got %s", ttl)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	t.Parallel()

	client := &Client{}
	if key := client.RateLimitKey("scope"); key != "sf:rate_limit:scope" {
		t.Fatalf("unexpected key %q", key)
	}
	if key := client.CounterKey(""); key != "sf:counter" {
		t.Fatalf("unexpected key %q", key)
	}
}
