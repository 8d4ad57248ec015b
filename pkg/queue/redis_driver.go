package queue

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "lawlaw:queue:jobs"
	redisDelayedKey = "lawlaw:queue:delayed"
)

// RedisDriver queues jobs in a Redis list so they survive restarts.
// Delayed jobs sit in a sorted set scored by their ready time and are
// promoted by Pop.
type RedisDriver struct {
	client *redis.Client
}

// NewRedisDriver wraps an existing Redis client.
func NewRedisDriver(client *redis.Client) *RedisDriver {
	return &RedisDriver{client: client}
}

// Push appends to the job list.
func (d *RedisDriver) Push(ctx context.Context, payload []byte) error {
	return d.client.LPush(ctx, redisQueueKey, payload).Err()
}

// PushDelayed adds to the delayed set, scored by ready time.
func (d *RedisDriver) PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	return d.client.ZAdd(ctx, redisDelayedKey, redis.Z{Score: score, Member: payload}).Err()
}

// Pop promotes due delayed jobs, then blocks briefly on the list.
// Returns (nil, nil) on timeout so the worker loop can re-check the
// delayed set.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	d.promoteDue(ctx)

	res, err := d.client.BRPop(ctx, 2*time.Second, redisQueueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	return []byte(res[1]), nil
}

func (d *RedisDriver) promoteDue(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := d.client.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf", Max: now, Count: 32,
	}).Result()
	if err != nil || len(due) == 0 {
		return
	}
	for _, member := range due {
		if d.client.ZRem(ctx, redisDelayedKey, member).Val() > 0 {
			d.client.LPush(ctx, redisQueueKey, member)
		}
	}
}
