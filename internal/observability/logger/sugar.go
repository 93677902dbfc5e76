package logger

import (
	"context"

	"go.uber.org/zap"
)

// S returns the singleton's SugaredLogger.
// Handy for quick printf-style logs.
//
// Example:
//
//	logger.S().Infof("user %s created", userID)
//	logger.S().Errorw("failed to create user", "error", err, "user_id", userID)
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom extracts the SugaredLogger from the context.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
