// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
	"github.com/taibuivan/storekeep/internal/platform/constants"
)

// LoginLimiter throttles repeated failed logins for the same key.
type LoginLimiter interface {
	// Check returns apperr.RateLimited while the key is locked out.
	Check(ctx context.Context, key string) error
	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, key string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}

// RedisLoginLimiter counts failures in Redis with a fixed lockout window.
//
// The first failure starts the window; the key expires at its end regardless of
// further failures, so a locked-out caller waits at most one window.
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewRedisLoginLimiter constructs a [RedisLoginLimiter].
func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (limiter *RedisLoginLimiter) key(key string) string {
	return constants.RedisPrefixLoginAttempts + key
}

// Check implements [LoginLimiter].
func (limiter *RedisLoginLimiter) Check(ctx context.Context, key string) error {
	count, err := limiter.client.Get(ctx, limiter.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("login_limiter_check_failed: %w", err)
	}
	if count < limiter.maxAttempts {
		return nil
	}

	ttl, err := limiter.client.TTL(ctx, limiter.key(key)).Result()
	if err != nil || ttl <= 0 {
		ttl = limiter.window
	}
	return apperr.RateLimited(int(math.Ceil(ttl.Seconds())))
}

// RecordFailure implements [LoginLimiter].
func (limiter *RedisLoginLimiter) RecordFailure(ctx context.Context, key string) error {
	redisKey := limiter.key(key)

	count, err := limiter.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("login_limiter_incr_failed: %w", err)
	}
	if count == 1 {
		if err := limiter.client.Expire(ctx, redisKey, limiter.window).Err(); err != nil {
			return fmt.Errorf("login_limiter_expire_failed: %w", err)
		}
	}
	return nil
}

// Reset implements [LoginLimiter].
func (limiter *RedisLoginLimiter) Reset(ctx context.Context, key string) error {
	if err := limiter.client.Del(ctx, limiter.key(key)).Err(); err != nil {
		return fmt.Errorf("login_limiter_reset_failed: %w", err)
	}
	return nil
}
