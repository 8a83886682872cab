package backendapi

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCacheWithClient(client, ""), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	cache.Set("fp", &CacheEntry{
		StatusCode: 200,
		Body:       map[string]any{"status": float64(0), "data": "cached"},
	}, time.Minute)

	got, found := cache.Get("fp")
	if !found {
		t.Fatal("entry should round-trip through redis")
	}
	if got.StatusCode != 200 {
		t.Errorf("status code lost: %d", got.StatusCode)
	}
	body, ok := got.Body.(map[string]any)
	if !ok || body["data"] != "cached" {
		t.Errorf("body lost in serialization: %v", got.Body)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	if _, found := cache.Get("absent"); found {
		t.Error("missing key should report not found")
	}
}

func TestRedisCacheTTL(t *testing.T) {
	cache, mr := newTestRedisCache(t)

	cache.Set("fp", &CacheEntry{StatusCode: 200}, time.Second)
	mr.FastForward(2 * time.Second)

	if _, found := cache.Get("fp"); found {
		t.Error("entry should expire server-side")
	}
}

func TestRedisCacheZeroTTLPersists(t *testing.T) {
	cache, mr := newTestRedisCache(t)

	cache.Set("fp", &CacheEntry{StatusCode: 200}, 0)
	mr.FastForward(time.Hour)

	if _, found := cache.Get("fp"); !found {
		t.Error("zero-ttl entry should persist")
	}
}

func TestRedisCacheDeleteAndClear(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	cache.Set("a", &CacheEntry{}, 0)
	cache.Delete("a")
	if _, found := cache.Get("a"); found {
		t.Error("deleted entry should be gone")
	}

	cache.Set("b", &CacheEntry{}, 0)
	cache.Set("c", &CacheEntry{}, 0)
	cache.Clear()
	if _, found := cache.Get("b"); found {
		t.Error("clear should drop all prefixed entries")
	}
	if _, found := cache.Get("c"); found {
		t.Error("clear should drop all prefixed entries")
	}
}

func TestRedisCacheMalformedEntryDropped(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	logger := &recordingLogger{}
	cache.SetLogger(logger)

	mr.Set("backendapi:bad", "{not json")

	if _, found := cache.Get("bad"); found {
		t.Error("malformed entry should report not found")
	}
	if logger.count("WARN") == 0 {
		t.Error("malformed entry should warn")
	}
	if mr.Exists("backendapi:bad") {
		t.Error("malformed entry should be deleted")
	}
}
