// Package ratelimit はechoのRateLimiterStore実装。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"foodorder/internal/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "foodorder:ratelimit:"

// RedisStore は固定窓のカウンタ（INCR + EXPIRE）。
// 複数インスタンスで同じ上限を共有する。
type RedisStore struct {
	client  *redis.Client
	limit   int64
	window  time.Duration
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewRedisStore(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{
		client:  client,
		limit:   int64(limit),
		window:  window,
		timeout: 200 * time.Millisecond,
		log:     log,
		now:     time.Now,
	}
}

// Allow はidentifierが今の窓で上限内かを返す。
// Redisが落ちているときは通す（fail open）。
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	slot := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", keyPrefix, identifier, slot)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.log.Error("rate limit incr failed", "error", err, "identifier", identifier)
		return true, nil
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.log.Warn("rate limit expire failed", "error", err, "key", key)
		}
	}
	return count <= s.limit, nil
}
