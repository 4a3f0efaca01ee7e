package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	PostingsTotal          *prometheus.CounterVec
	ScanConflictsTotal     prometheus.Counter
	DuplicateScansTotal    prometheus.Counter
	InsufficientStockTotal prometheus.Counter
	PostingDuration        prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		PostingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "waretrack_ledger_postings_total",
			Help: "Ledger postings committed, by transaction type.",
		}, []string{"transaction_type"}),
		ScanConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waretrack_scan_conflicts_total",
			Help: "Scan placements rejected because the code is tracked at another location.",
		}),
		DuplicateScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waretrack_duplicate_scans_total",
			Help: "Scan placements rejected because the code is already at the target location.",
		}),
		InsufficientStockTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waretrack_insufficient_stock_total",
			Help: "Postings rejected because a deduction would drive a quantity below zero.",
		}),
		PostingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "waretrack_ledger_posting_duration_seconds",
			Help:    "End-to-end duration of ledger postings.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.PostingsTotal,
		m.ScanConflictsTotal,
		m.DuplicateScansTotal,
		m.InsufficientStockTotal,
		m.PostingDuration,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
