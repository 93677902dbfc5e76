package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/yoocash/idbroker/internal/cache"
	"github.com/yoocash/idbroker/internal/providers"
)

// CachedStore wraps a Store with a short-TTL cache. The file store
// re-reads YAML on every call; behind the cache a settings change still
// lands within one TTL. Misses and backend errors fall through to the
// inner store, so the cache can never make a working store fail.
type CachedStore struct {
	inner Store
	cache cache.Client
	ttl   time.Duration
}

// NewCached wraps inner with a cache layer. A non-positive ttl disables
// caching and returns inner unchanged.
func NewCached(inner Store, c cache.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		return inner
	}
	return &CachedStore{inner: inner, cache: c, ttl: ttl}
}

// notConfiguredMarker is cached in place of a config so that repeated
// callbacks for a disabled provider skip the inner store too.
const notConfiguredMarker = `{"not_configured":true}`

func (s *CachedStore) ProviderConfig(ctx context.Context, providerID string) (*providers.Config, error) {
	key := "settings:provider:" + providerID

	if raw, err := s.cache.Get(ctx, key); err == nil {
		if raw == notConfiguredMarker {
			return nil, ErrNotConfigured
		}
		var cfg providers.Config
		if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
			return &cfg, nil
		}
	}

	cfg, err := s.inner.ProviderConfig(ctx, providerID)
	if errors.Is(err, ErrNotConfigured) {
		_ = s.cache.Set(ctx, key, notConfiguredMarker, s.ttl)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if raw, merr := json.Marshal(cfg); merr == nil {
		_ = s.cache.Set(ctx, key, string(raw), s.ttl)
	}
	return cfg, nil
}

func (s *CachedStore) AdvancedSettings(ctx context.Context) (*Advanced, error) {
	const key = "settings:advanced"

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var adv Advanced
		if err := json.Unmarshal([]byte(raw), &adv); err == nil {
			return &adv, nil
		}
	}

	adv, err := s.inner.AdvancedSettings(ctx)
	if err != nil {
		return nil, err
	}

	if raw, merr := json.Marshal(adv); merr == nil {
		_ = s.cache.Set(ctx, key, string(raw), s.ttl)
	}
	return adv, nil
}
