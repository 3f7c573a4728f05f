package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsTotal counts checkout attempts by outcome.
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_transactions_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"status"},
	)

	// StockChangesTotal counts applied ledger entries by reason.
	StockChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_stock_changes_total",
			Help: "Total number of stock ledger entries written",
		},
		[]string{"reason"},
	)

	// InsufficientStockTotal counts rejected operations that would oversell.
	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_insufficient_stock_total",
			Help: "Total number of operations rejected for insufficient stock",
		},
	)

	// CheckoutDuration observes end-to-end checkout latency in seconds.
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_checkout_duration_seconds",
			Help:    "Duration of checkout operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
