// Package router assembles the public HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authctrl "github.com/yoocash/idbroker/internal/http/controllers/auth"
	healthctrl "github.com/yoocash/idbroker/internal/http/controllers/health"
	mw "github.com/yoocash/idbroker/internal/http/middlewares"
	"github.com/yoocash/idbroker/internal/rate"
)

// Deps holds everything the router needs.
type Deps struct {
	Auth   *authctrl.Controllers
	Health *healthctrl.HealthController

	// Limiter is optional; when nil the callback endpoints run
	// unthrottled.
	Limiter rate.Limiter
}

// New builds the service router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
	}

	r.Route("/v1/auth", func(r chi.Router) {
		r.Method(http.MethodGet, "/providers", mw.Chain(
			http.HandlerFunc(deps.Auth.Providers.List), base...))

		callback := []mw.Middleware{}
		callback = append(callback, base...)
		if deps.Limiter != nil {
			callback = append(callback, mw.WithRateLimit(deps.Limiter, mw.IPPathRateKey))
		}
		r.Method(http.MethodPost, "/{provider}/callback", mw.Chain(
			http.HandlerFunc(deps.Auth.Callback.Callback), callback...))
		r.Method(http.MethodGet, "/{provider}/callback", mw.Chain(
			http.HandlerFunc(deps.Auth.Callback.Callback), callback...))
	})

	r.Method(http.MethodGet, "/healthz", mw.Chain(
		http.HandlerFunc(deps.Health.Health), mw.WithRecover()))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
