// Package metrics collects register counters. The register exposes no
// network endpoint; counters are written in Prometheus text format to a
// file that a node-exporter textfile collector can pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog commit outcomes.
const (
	CommitWritten   = "written"
	CommitUnchanged = "unchanged"
	CommitDeclined  = "declined"
	CommitFailed    = "failed"
)

// Registry holds every register metric.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// ReceiptsPaid counts receipts persisted to a day log.
	ReceiptsPaid = factory.NewCounter(prometheus.CounterOpts{
		Name: "register_receipts_paid_total",
		Help: "Number of receipts paid and persisted",
	})

	// ReceiptLines counts line items across paid receipts.
	ReceiptLines = factory.NewCounter(prometheus.CounterOpts{
		Name: "register_receipt_lines_total",
		Help: "Number of line items on paid receipts",
	})

	// Revenue sums receipt totals.
	Revenue = factory.NewCounter(prometheus.CounterOpts{
		Name: "register_revenue_total",
		Help: "Sum of paid receipt totals",
	})

	// ReceiptsLoaded is the number of historical receipts reconstructed at startup.
	ReceiptsLoaded = factory.NewGauge(prometheus.GaugeOpts{
		Name: "register_receipts_loaded",
		Help: "Historical receipts reconstructed from day logs",
	})

	// CatalogCommits counts catalog rewrites by outcome.
	CatalogCommits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "register_catalog_commits_total",
			Help: "Catalog commit attempts by outcome",
		},
		[]string{"result"},
	)
)

// RecordReceiptPaid records one persisted receipt.
func RecordReceiptPaid(lines int, total float64) {
	ReceiptsPaid.Inc()
	ReceiptLines.Add(float64(lines))
	if total > 0 {
		Revenue.Add(total)
	}
}

// RecordCatalogCommit records the outcome of a catalog commit.
func RecordCatalogCommit(result string) {
	CatalogCommits.WithLabelValues(result).Inc()
}

// SetReceiptsLoaded sets the number of reconstructed receipts.
func SetReceiptsLoaded(n int) {
	ReceiptsLoaded.Set(float64(n))
}

// WriteTextfile writes all metrics to path in Prometheus text format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
