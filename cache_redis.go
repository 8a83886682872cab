package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig configures a RedisCache.
type RedisCacheConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	PoolSize int    `json:"pool_size" yaml:"pool_size"`
	// KeyPrefix namespaces cache keys, defaulting to "backendapi:".
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
}

// RedisCache is a Cache implementation backed by Redis, for sharing cached
// results across processes or surviving restarts. Entries are stored as JSON
// with the TTL enforced server-side.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger Logger
}

// NewRedisCache connects to Redis and returns a cache. The connection is
// verified with a ping before use.
func NewRedisCache(ctx context.Context, config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil {
		return nil, fmt.Errorf("redis cache config is required")
	}
	if config.PoolSize <= 0 {
		config.PoolSize = 10
	}
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "backendapi:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix}, nil
}

// NewRedisCacheWithClient wraps an existing redis client.
func NewRedisCacheWithClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "backendapi:"
	}
	return &RedisCache{client: client, prefix: keyPrefix}
}

// SetLogger attaches a logger for storage-level warnings.
func (c *RedisCache) SetLogger(logger Logger) {
	c.logger = logger
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

// Get fetches and decodes the entry for key.
func (c *RedisCache) Get(key string) (*CacheEntry, bool) {
	raw, err := c.client.Get(context.Background(), c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache entry malformed, dropping", "key", key, "error", err)
		}
		c.Delete(key)
		return nil, false
	}
	if entry.Expired(time.Now()) {
		c.Delete(key)
		return nil, false
	}
	return &entry, true
}

// Set encodes and stores the entry. A ttl of zero stores it without expiry.
func (c *RedisCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	} else {
		entry.ExpiresAt = time.Time{}
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache entry not serializable, skipping", "key", key, "error", err)
		}
		return
	}

	if err := c.client.Set(context.Background(), c.key(key), raw, ttl).Err(); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache set failed", "key", key, "error", err)
		}
	}
}

// Delete removes the entry for key.
func (c *RedisCache) Delete(key string) {
	if err := c.client.Del(context.Background(), c.key(key)).Err(); err != nil && c.logger != nil {
		c.logger.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

// Clear removes all entries under this cache's key prefix.
func (c *RedisCache) Clear() {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil && c.logger != nil {
			c.logger.Warn("redis cache clear failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil && c.logger != nil {
		c.logger.Warn("redis cache scan failed", "error", err)
	}
}

// Close releases the underlying redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
