// Package metrics exposes Prometheus metrics for the orchestration layer
// and the development ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/walletflow/internal/domain"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Orchestrator metrics
	Operations      *prometheus.CounterVec // by operation
	OperationErrors *prometheus.CounterVec // by operation, error class
	RefreshDuration prometheus.Histogram
	RefreshErrors   prometheus.Counter

	// Ledgerd metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	IdempotentReplays prometheus.Counter
}

// New creates metrics registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered on reg. Tests pass a private
// registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletflow_operations_total",
			Help: "Mutating wallet operations attempted",
		}, []string{"operation"}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletflow_operation_errors_total",
			Help: "Failed wallet operations by error class",
		}, []string{"operation", "class"}),
		RefreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletflow_refresh_duration_seconds",
			Help:    "Time to re-fetch account state after a mutation",
			Buckets: prometheus.DefBuckets,
		}),
		RefreshErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletflow_refresh_errors_total",
			Help: "Failed account refreshes",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "walletflow_ledgerd_http_requests_total",
			Help: "Ledgerd HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walletflow_ledgerd_http_duration_seconds",
			Help:    "Ledgerd HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "walletflow_ledgerd_idempotent_replays_total",
			Help: "Mutating requests answered from the idempotency store",
		}),
	}
}

// ObserveOperation implements usecase.Recorder.
func (m *Metrics) ObserveOperation(op string, err error) {
	m.Operations.WithLabelValues(op).Inc()
	if err != nil {
		m.OperationErrors.WithLabelValues(op, domain.ErrorClass(err)).Inc()
	}
}

// ObserveRefresh implements usecase.Recorder.
func (m *Metrics) ObserveRefresh(d time.Duration, err error) {
	m.RefreshDuration.Observe(d.Seconds())
	if err != nil {
		m.RefreshErrors.Inc()
	}
}
