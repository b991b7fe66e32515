package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the token lifecycle.
type Metrics struct {
	OperationsTotal  *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
	OperationSeconds *prometheus.HistogramVec
	ProximityChecks  *prometheus.CounterVec
}

// New creates and registers all token lifecycle metrics on the default
// registry.
func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geostake_token_operations_total",
			Help: "Total successful lifecycle operations by kind.",
		}, []string{"operation"}),
		FailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geostake_token_operation_failures_total",
			Help: "Total failed lifecycle operations by kind and error code.",
		}, []string{"operation", "code"}),
		OperationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geostake_token_operation_duration_seconds",
			Help:    "Lifecycle operation latency by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ProximityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "geostake_proximity_checks_total",
			Help: "Proximity verification outcomes.",
		}, []string{"matched"}),
	}
}

// RecordOperation counts a successful operation. Nil-safe so callers can run
// without metrics wired (tests, tools).
func (m *Metrics) RecordOperation(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation).Inc()
	m.OperationSeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordFailure counts a failed operation by error code.
func (m *Metrics) RecordFailure(operation, code string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(operation, code).Inc()
}

// RecordProximityCheck counts one verification outcome.
func (m *Metrics) RecordProximityCheck(matched bool) {
	if m == nil {
		return
	}
	label := "false"
	if matched {
		label = "true"
	}
	m.ProximityChecks.WithLabelValues(label).Inc()
}
