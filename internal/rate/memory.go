package rate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter is the in-process counterpart of RedisLimiter: same
// fixed-window algorithm, counters held in a go-cache store that evicts
// expired windows on its own.
type MemoryLimiter struct {
	mu     sync.Mutex
	store  *gocache.Cache
	max    int64
	window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store:  gocache.New(window, 2*window),
		max:    int64(max),
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.window)
	cacheKey := fmt.Sprintf("%s:%d", strings.ReplaceAll(key, " ", "_"), winStart.Unix())
	windowEnd := winStart.Add(l.window)

	l.mu.Lock()
	var hits int64 = 1
	if v, ok := l.store.Get(cacheKey); ok {
		hits = v.(int64) + 1
	}
	l.store.Set(cacheKey, hits, time.Until(windowEnd))
	l.mu.Unlock()

	return decide(hits, l.max, func() time.Duration {
		return time.Until(windowEnd)
	}), nil
}
