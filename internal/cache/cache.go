// Package cache provides a small string cache with memory and Redis
// backends. It backs the short-TTL settings cache so file or database
// reads are not repeated on every callback.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client is the cache operations surface.
type Client interface {
	// Get returns a value. ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the backend connection.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Driver string // "memory" | "redis"
	Addr   string
	DB     int
	Prefix string // prepended to every key
}

// ErrNotFound reports an absent or expired key.
var ErrNotFound = errors.New("cache: key not found")

// New builds a client for the configured driver. Unknown drivers fall
// back to the in-process backend.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}
