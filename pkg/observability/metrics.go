// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the parlor API.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets suited for API latencies dominated
// by the memory-hard password hash (~100ms), ranging from 1ms to 5s.
var APIBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parlor_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parlor_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// RateLimitRejectedTotal counts requests rejected at the admission gate.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parlor_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// AuthFailuresTotal counts failed password verifications. Failures are
	// silent toward the client, so this counter is the operational signal
	// for credential-stuffing attempts.
	AuthFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parlor_auth_failures_total",
			Help: "Failed password verifications",
		},
	)

	// TokensIssuedTotal counts anti-CSRF tokens issued at login.
	TokensIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parlor_tokens_issued_total",
			Help: "Tokens issued",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RateLimitRejectedTotal,
		AuthFailuresTotal,
		TokensIssuedTotal,
	)
}
