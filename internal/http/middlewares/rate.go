package middlewares

import (
	"net/http"
	"strconv"

	httperrors "github.com/yoocash/idbroker/internal/http/errors"
	"github.com/yoocash/idbroker/internal/observability/logger"
	"github.com/yoocash/idbroker/internal/rate"
)

// RateKeyFunc derives the limiter key for a request.
type RateKeyFunc func(r *http.Request) string

// WithRateLimit enforces a fixed-window limit per key. A limiter error
// fails open: refusing logins because Redis blinked is worse than
// letting a few extra requests through.
func WithRateLimit(l rate.Limiter, keyFn RateKeyFunc) Middleware {
	if keyFn == nil {
		keyFn = IPPathRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				httperrors.WriteError(w, httperrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
