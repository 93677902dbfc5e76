package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Init initializes the singleton logger with the given configuration.
// Idempotent: only the first call has effect.
// Must be called at application startup (main.go).
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L returns the singleton logger.
// If Init() was never called, a default logger (dev, info) is created.
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named returns a logger with a component name.
// The name shows up in every entry to identify the source.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With returns a logger with extra fields.
// Useful for persistent context (e.g. provider in an adapter).
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushes any buffered entries.
// Should be deferred in main.go.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
