package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Broker-related Prometheus metrics. These live in a standalone package to
// avoid import cycles between the broker and HTTP packages.

var (
	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "idbroker_auth_attempts_total",
		Help: "Authentication attempts by provider and outcome",
	}, []string{"provider", "outcome"})

	AuthDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "idbroker_auth_duration_seconds",
		Help:    "End-to-end resolution latency by provider",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"provider"})

	ProviderCallErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "idbroker_provider_call_errors_total",
		Help: "Upstream provider call failures by provider",
	}, []string{"provider"})

	UsersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "idbroker_users_created_total",
		Help: "Accounts provisioned by provider",
	}, []string{"provider"})
)

// Outcome label values for AuthAttempts.
const (
	OutcomeMatched  = "matched"
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// RegisterBroker registers the broker metrics on the given registry (or
// default if nil).
func RegisterBroker(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{AuthAttempts, AuthDuration, ProviderCallErrors, UsersCreated} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
