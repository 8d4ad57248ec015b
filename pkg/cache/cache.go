// Package cache wraps the shared Redis client. Besides plain JSON caching
// it backs sessions, the Redis queue driver, and the OTP issuance rate
// limiter. All operations no-op safely when Redis is unavailable so the
// storefront keeps serving from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // mark unavailable so Get/Set/Del no-op
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value under key for ttl.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget is an alias for Del.
func Forget(key string) error { return Del(key) }

// Increment atomically increments a counter key, setting ttl on first use.
// Used by the OTP issuance rate limiter; returns the new count. When Redis
// is down it returns 1 so callers fail open rather than blocking users.
func Increment(key string, ttl time.Duration) (int64, error) {
	if RDB == nil {
		return 1, nil
	}
	n, err := RDB.Incr(Ctx, key).Result()
	if err != nil {
		return 1, err
	}
	if n == 1 {
		_ = RDB.Expire(Ctx, key, ttl).Err()
	}
	return n, nil
}
