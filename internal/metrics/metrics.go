// Package metrics provides Prometheus metrics for fedauth.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignInTotal counts sign-in attempts by provider and outcome.
	SignInTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedauth",
			Name:      "sign_in_total",
			Help:      "Total number of federated sign-in attempts",
		},
		[]string{"provider", "outcome"},
	)

	// AccountsCreatedTotal counts local users created on first sign-in.
	AccountsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedauth",
			Name:      "accounts_created_total",
			Help:      "Total number of local accounts created by federated sign-in",
		},
		[]string{"provider"},
	)

	// KeySetFetchTotal counts JWKS fetches by provider and status.
	KeySetFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedauth",
			Name:      "jwks_fetch_total",
			Help:      "Total number of JWKS fetches",
		},
		[]string{"provider", "status"},
	)

	// HTTPRequestDuration measures request handling time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fedauth",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordSignIn records the outcome of one sign-in attempt.
func RecordSignIn(provider, outcome string) {
	SignInTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordAccountCreated records a newly created local account.
func RecordAccountCreated(provider string) {
	AccountsCreatedTotal.WithLabelValues(provider).Inc()
}

// RecordKeySetFetch records a JWKS fetch.
func RecordKeySetFetch(provider, status string) {
	KeySetFetchTotal.WithLabelValues(provider, status).Inc()
}
