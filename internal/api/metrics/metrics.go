// Package metrics defines the custom Prometheus metrics of the constituent
// service. It is the single source of truth for metric names, labels and help
// strings.
//
// Build one Metrics per registry with New. The HTTP request metrics come from
// echoprometheus and share the same registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "constituents"

// Submission outcomes.
const (
	OutcomeCreated    = "created"
	OutcomeReplayed   = "replayed"
	OutcomeInvalid    = "validation_error"
	OutcomeDuplicate  = "duplicate"
	OutcomeStoreError = "storage_error"
)

type Metrics struct {
	// SubmissionsTotal counts write-path results.
	// Label:
	//   - outcome: one of the Outcome* constants
	SubmissionsTotal *prometheus.CounterVec

	// DuplicatesTotal counts rejected duplicates by rule ("email", "name+age", "generic").
	DuplicatesTotal *prometheus.CounterVec

	// ExportsTotal counts completed CSV exports.
	ExportsTotal prometheus.Counter

	// ExportedRowsTotal counts data rows written across all CSV exports.
	ExportedRowsTotal prometheus.Counter
}

// New registers the service metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of constituent submissions, by outcome.",
			},
			[]string{"outcome"},
		),
		DuplicatesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicates_total",
				Help:      "Total number of submissions rejected as duplicates, by rule.",
			},
			[]string{"rule"},
		),
		ExportsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exports_total",
			Help:      "Total number of completed CSV exports.",
		}),
		ExportedRowsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exported_rows_total",
			Help:      "Total number of data rows written by CSV exports.",
		}),
	}
}

// ObserveSubmission records one write-path outcome. A nil receiver is a no-op.
func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDuplicate(rule string) {
	if m == nil {
		return
	}
	m.DuplicatesTotal.WithLabelValues(rule).Inc()
}

func (m *Metrics) ObserveExport(rows int) {
	if m == nil {
		return
	}
	m.ExportsTotal.Inc()
	m.ExportedRowsTotal.Add(float64(rows))
}
