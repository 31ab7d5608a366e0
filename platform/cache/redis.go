package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"ubiflow_gateway/platform/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ubiflow:"

// Redis is a Store backed by a Redis server, shared between the API and the
// scheduler so both reuse the same bearer token.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis connects to the Redis server configured by REDIS_URL.
func NewRedis(ctx context.Context, cfg config.CacheConfig) (*Redis, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig != nil {
			opt.TLSConfig = opt.TLSConfig.Clone()
			opt.TLSConfig.InsecureSkipVerify = true
		} else {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisFromClient(client), nil
}

// NewRedisFromClient wraps an existing go-redis client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key until expiresAt. An expiry in the past is a no-op.
func (r *Redis) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

// Ping checks the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
