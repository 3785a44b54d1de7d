package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity lifecycle module.
type Metrics struct {
	// Lifecycle transitions by resulting status
	Transitions *prometheus.CounterVec

	// Password operations by kind ("reset", "change", "check") and outcome
	PasswordOps *prometheus.CounterVec

	// Directory operation failures by operation
	DirectoryErrors *prometheus.CounterVec

	// End-to-end operation latency by operation
	OperationLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all identity module metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudid_identity_transitions_total",
			Help: "Total lifecycle transitions by resulting status",
		}, []string{"status"}),

		PasswordOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudid_identity_password_ops_total",
			Help: "Total password operations by kind and outcome",
		}, []string{"kind", "outcome"}),

		DirectoryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudid_directory_errors_total",
			Help: "Total directory operation failures by operation",
		}, []string{"operation"}),

		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudid_identity_operation_duration_seconds",
			Help:    "Duration of identity lifecycle operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}

// IncrementTransition records a lifecycle transition into the given status.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

// IncrementPasswordOp records the outcome of a password operation.
func (m *Metrics) IncrementPasswordOp(kind, outcome string) {
	if m != nil {
		m.PasswordOps.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementDirectoryError records a failed directory operation.
func (m *Metrics) IncrementDirectoryError(operation string) {
	if m != nil {
		m.DirectoryErrors.WithLabelValues(operation).Inc()
	}
}

// ObserveOperationLatency records the duration of a lifecycle operation.
func (m *Metrics) ObserveOperationLatency(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
