package registry

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a spec store backed by Redis. Specs are stored as JSON and
// expire via Redis TTLs, so registrations made by one machine resolve on
// any other sharing the same backend.
type Redis struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
}

// RedisOption configures the Redis store.
type RedisOption func(*Redis)

// WithRedisDefaultTTL sets the expiration applied when Set is called with
// a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		r.defaultTTL = d
	}
}

// NewRedis creates a Redis-backed spec store. The client is typically
// obtained from Dial; its lifecycle stays with the caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client:     client,
		defaultTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get retrieves a spec by key.
// Returns ErrNotFound if the key does not exist or has expired.
func (r *Redis) Get(ctx context.Context, key string) (Spec, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Spec{}, ErrNotFound
		}
		return Spec{}, err
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Set stores a spec with the given TTL.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = no expiration (persists until deleted or evicted by Redis).
func (r *Redis) Set(ctx context.Context, key string, spec Spec, ttl time.Duration) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	if ttl == 0 {
		ttl = r.defaultTTL
	}
	// Redis interprets 0 as no expiration; map our negative "never" to that.
	redisTTL := max(ttl, 0)

	return r.client.Set(ctx, key, data, redisTTL).Err()
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Has checks whether a key exists.
func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close is a no-op; the Redis client lifecycle is managed by the caller.
func (r *Redis) Close() error {
	return nil
}

var _ Store = (*Redis)(nil)

// Dial opens a Redis client for the registry, retrying the initial ping a
// few times so a briefly unavailable server does not fail startup.
// Supports redis:// and rediss:// (TLS) URL schemes.
func Dial(ctx context.Context, url string) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyRedisURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrParseRedisURL
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrParseRedisURL, err)
	}

	client := redis.NewClient(opts)

	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * time.Second):
		}
	}

	_ = client.Close()
	return nil, errors.Join(ErrRedisUnavailable, lastErr)
}
