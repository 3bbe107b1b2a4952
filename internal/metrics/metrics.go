// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, route and
	// status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitledger",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "code"})

	// HTTPDuration observes request latency by route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "splitledger",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// LedgerOps counts engine mutations by operation and outcome.
	LedgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitledger",
		Name:      "ledger_operations_total",
		Help:      "Ledger mutations by operation and outcome.",
	}, []string{"op", "outcome"})

	// SettlementSize observes how many payments the solver emits per
	// plan.
	SettlementSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "splitledger",
		Name:      "settlement_plan_payments",
		Help:      "Payments per computed settlement plan.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
)
