package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/media-converter-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

func makeTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// spin up in-memory Redis
	mr := miniredis.RunT(t)
	// point the real client at it
	rdb := redis.NewClient(&redis.Options{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Cache{client: rdb}, mr
}

func TestGetSetTaskStatus(t *testing.T) {
	c, mr := makeTestCache(t)
	ctx := context.Background()
	id := uuid.NewUUID()
	data := []byte(`{"task_id":"` + id.String() + `","status":"completed"}`)

	// 1) Cache miss
	got, err := c.GetTaskStatus(ctx, id)
	if err != nil {
		t.Fatalf("GetTaskStatus miss: %v", err)
	}
	if got != nil {
		t.Errorf("GetTaskStatus miss: got %q; want nil", got)
	}
	etag, err := c.GetEtagTaskStatus(ctx, id)
	if err != nil || etag != "" {
		t.Errorf("GetEtagTaskStatus miss: got %q, %v", etag, err)
	}

	// 2) Set + Get
	validUntil := time.Now().Add(2 * time.Minute)
	c.SetTaskStatus(ctx, id, data, validUntil)
	c.SetEtagTaskStatus(ctx, id, `"0badf00d"`, validUntil)

	if ttl := mr.TTL(getCacheKey(id.String(), false)); ttl < time.Minute || ttl > 2*time.Minute+time.Second {
		t.Errorf("redis TTL = %v; want ~2m", ttl)
	}
	if ttl := mr.TTL(getCacheKey(id.String(), true)); ttl < time.Minute || ttl > 2*time.Minute+time.Second {
		t.Errorf("etag TTL = %v; want ~2m", ttl)
	}

	got, err = c.GetTaskStatus(ctx, id)
	if err != nil {
		t.Fatalf("GetTaskStatus hit: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetTaskStatus hit = %q; want %q", got, data)
	}
	etag, err = c.GetEtagTaskStatus(ctx, id)
	if err != nil {
		t.Fatalf("GetEtagTaskStatus hit: %v", err)
	}
	if etag != `"0badf00d"` {
		t.Errorf("etag = %q", etag)
	}

	// 3) Expiry
	mr.FastForward(3 * time.Minute)
	if got, _ := c.GetTaskStatus(ctx, id); got != nil {
		t.Errorf("expected miss after expiry, got %q", got)
	}
}

func TestSetTaskStatus_PastDeadlineIsSkipped(t *testing.T) {
	c, mr := makeTestCache(t)
	id := uuid.NewUUID()

	c.SetTaskStatus(context.Background(), id, []byte("x"), time.Now().Add(-time.Second))
	if mr.Exists(getCacheKey(id.String(), false)) {
		t.Error("expired entry should not be written")
	}
}

func TestGetTaskStatus_RedisDown(t *testing.T) {
	c, mr := makeTestCache(t)
	mr.Close()

	if _, err := c.GetTaskStatus(context.Background(), uuid.NewUUID()); err == nil {
		t.Error("expected error when redis is unreachable")
	}
	// set must not panic or block the caller
	c.SetTaskStatus(context.Background(), uuid.NewUUID(), []byte("x"), time.Now().Add(time.Minute))
}

func TestPing(t *testing.T) {
	c, _ := makeTestCache(t)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestNoopCache(t *testing.T) {
	n := NewNoop()
	ctx := context.Background()
	id := uuid.NewUUID()

	n.SetTaskStatus(ctx, id, []byte("x"), time.Now().Add(time.Minute))
	if got, err := n.GetTaskStatus(ctx, id); got != nil || err != nil {
		t.Errorf("noop get = %q, %v", got, err)
	}
}
