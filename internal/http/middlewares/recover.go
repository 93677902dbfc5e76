package middlewares

import (
	"net/http"

	httperrors "github.com/yoocash/idbroker/internal/http/errors"
	"github.com/yoocash/idbroker/internal/observability/logger"
)

// WithRecover converts handler panics into a 500 response instead of
// tearing down the connection.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("handler panic",
						logger.Any("panic", rec),
						logger.Path(r.URL.Path),
					)
					httperrors.WriteError(w, httperrors.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
