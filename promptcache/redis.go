package promptcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promptfoundry/bedrocklab"
)

// keyPrefix namespaces cache entries so Flush never touches unrelated keys
// in a shared Redis.
const keyPrefix = "promptcache:"

// RedisAPI is the subset of the go-redis client used by the store.
// Satisfied by *redis.Client.
type RedisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore is a Store backed by Redis, for cache reuse across processes.
// Responses are stored as JSON with a server-side TTL.
type RedisStore struct {
	client RedisAPI
	ttl    time.Duration
}

// NewRedisStore creates a Redis store with the given TTL. A zero or negative
// TTL uses DefaultTTL.
func NewRedisStore(client RedisAPI, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromURL dials Redis from a URL (redis://...) and verifies the
// connection with a ping.
func NewRedisStoreFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, ttl), nil
}

// Get returns the cached response for the key, if present and unexpired.
func (s *RedisStore) Get(ctx context.Context, key string) (*bedrocklab.Response, bool, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var response bedrocklab.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &response, true, nil
}

// Set stores a response under the key with the store's TTL.
func (s *RedisStore) Set(ctx context.Context, key string, response *bedrocklab.Response) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response for cache: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Flush deletes all cache entries under the store's prefix, scanning rather
// than FLUSHDB so co-tenant keys survive.
func (s *RedisStore) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}
