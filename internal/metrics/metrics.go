// Package metrics provides Prometheus metrics for the federation layer.
// Metrics register on the default registry; exposition is left to the
// embedding application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedfs_operations_total",
			Help: "Total number of federated file operations",
		},
		[]string{"op", "status"},
	)

	providerFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedfs_provider_failures_total",
			Help: "Provider failures skipped during aggregation",
		},
		[]string{"provider", "op"},
	)

	decoratorFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedfs_decorator_failures_total",
			Help: "Decorator errors caught and suppressed",
		},
		[]string{"hook"},
	)

	ownershipMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fedfs_ownership_misses_total",
			Help: "Paths no registered provider owned",
		},
	)

	singleProviderBypassTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fedfs_single_provider_bypass_total",
			Help: "Dispatches that skipped the ownership check in single-provider mode",
		},
	)

	batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fedfs_batch_size",
			Help:    "Number of paths per batch operation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)
)

// ObserveOperation records the outcome of one federated operation.
func ObserveOperation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(op, status).Inc()
}

// ProviderFailure records a per-provider failure that was skipped during an
// aggregating operation.
func ProviderFailure(provider, op string) {
	providerFailuresTotal.WithLabelValues(provider, op).Inc()
}

// DecoratorFailure records a suppressed decorator error.
func DecoratorFailure(hook string) {
	decoratorFailuresTotal.WithLabelValues(hook).Inc()
}

// OwnershipMiss records a dispatch for which no provider owned the path.
func OwnershipMiss() {
	ownershipMissesTotal.Inc()
}

// SingleProviderBypass records a dispatch served by the sole registered
// provider without an ownership check.
func SingleProviderBypass() {
	singleProviderBypassTotal.Inc()
}

// ObserveBatchSize records the number of paths in a batch operation.
func ObserveBatchSize(n int) {
	batchSize.Observe(float64(n))
}
