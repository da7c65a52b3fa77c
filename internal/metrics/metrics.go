// Package metrics exposes the Prometheus collectors of the service.
//
// Collectors are registered on the default registry at init time and served
// on GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate outcomes.
const (
	OutcomePassed   = "passed"
	OutcomeRejected = "rejected"
	OutcomeErrored  = "errored"
)

var (
	// GateEvaluations counts request gate evaluations by gate, outcome and
	// the rule that decided it ("schema" for validation, "" when passed).
	GateEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meetapp_gate_evaluations_total",
			Help: "Total number of request gate evaluations",
		},
		[]string{"gate", "outcome", "rule"},
	)

	// GateDuration observes how long a gate evaluation took, store calls included.
	GateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meetapp_gate_duration_seconds",
			Help:    "Request gate evaluation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"gate"},
	)

	// HTTPRequestDuration observes request latency by route template and final status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meetapp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)
)

// RecordGateOutcome records one gate evaluation.
func RecordGateOutcome(gate, outcome, rule string, duration time.Duration) {
	GateEvaluations.WithLabelValues(gate, outcome, rule).Inc()
	GateDuration.WithLabelValues(gate).Observe(duration.Seconds())
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
