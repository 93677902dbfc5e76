// Package rate provides fixed-window rate limiting for the callback
// endpoints. Redis backs multi-instance deployments; an in-process
// variant covers single-node and test setups.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result reports one admission decision. RetryAfter is zero while the
// request is allowed, otherwise the time until the window resets.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter counts hits per key and window in Redis (INCR + EXPIRE),
// so all instances behind a load balancer share one budget.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		max:    int64(max),
		window: window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	// First hit creates the key without a TTL; arm it.
	if incr.Val() == 1 {
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
		ttl = l.client.TTL(ctx, redisKey)
	}

	return decide(incr.Val(), l.max, func() time.Duration {
		if d := ttl.Val(); d > 0 {
			return d
		}
		return l.window
	}), nil
}

// decide turns a hit count into a Result. reset is only consulted when
// the budget is exhausted.
func decide(hits, max int64, reset func() time.Duration) Result {
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{Allowed: hits <= max, Remaining: remaining}
	if !res.Allowed {
		res.RetryAfter = reset()
	}
	return res
}
