// Package telemetry provides prometheus instrumentation for the review-queue
// and analytics paths.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks verdict, report, feedback, and window-scan activity.
// All methods are safe on a nil receiver so systems can run uninstrumented.
type Metrics struct {
	VerdictsApplied    *prometheus.CounterVec
	ReportsIngested    prometheus.Counter
	FeedbackRecorded   prometheus.Counter
	DocumentsScanned   prometheus.Counter
	WindowScanDuration prometheus.Histogram
}

// New creates a Metrics instance registered against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VerdictsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mailward_verdicts_applied_total",
			Help: "Total number of human verdicts applied, by verdict",
		}, []string{"verdict"}),
		ReportsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailward_user_reports_total",
			Help: "Total number of user-reported messages ingested",
		}),
		FeedbackRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailward_feedback_rows_total",
			Help: "Total number of feedback ledger rows recorded",
		}),
		DocumentsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "mailward_documents_scanned_total",
			Help: "Total number of decision documents fetched by window scans",
		}),
		WindowScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailward_window_scan_duration_seconds",
			Help:    "Duration of window scan requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// ObserveVerdict records an applied verdict.
func (m *Metrics) ObserveVerdict(verdict string) {
	if m == nil {
		return
	}
	m.VerdictsApplied.WithLabelValues(verdict).Inc()
}

// ObserveReport records an ingested user report.
func (m *Metrics) ObserveReport() {
	if m == nil {
		return
	}
	m.ReportsIngested.Inc()
}

// ObserveFeedback records a written feedback row.
func (m *Metrics) ObserveFeedback() {
	if m == nil {
		return
	}
	m.FeedbackRecorded.Inc()
}

// ObserveScan records a completed window scan: its duration from start and
// the number of documents it fetched.
func (m *Metrics) ObserveScan(start time.Time, documents int) {
	if m == nil {
		return
	}
	m.WindowScanDuration.Observe(time.Since(start).Seconds())
	m.DocumentsScanned.Add(float64(documents))
}
