// Package metrics provides observability for the attendance module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the attendance module's instruments.
type Metrics struct {
	// Evidence gathering latencies by source
	EvidenceLatency *prometheus.HistogramVec

	// Decision outcomes by operation and reason ("accepted" on success)
	DecisionOutcome *prometheus.CounterVec

	// Remote face verification latency
	FaceVerifyLatency prometheus.Histogram

	// Overall decision latency by operation
	DecideLatency *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		EvidenceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "presensi_attendance_evidence_duration_seconds",
			Help:    "Duration of evidence gathering operations by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}), // source: "locations", "schedule", "identity"

		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "presensi_attendance_outcomes_total",
			Help: "Total attendance decisions by operation and outcome reason",
		}, []string{"operation", "reason"}),

		FaceVerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "presensi_attendance_face_verify_duration_seconds",
			Help:    "Duration of remote face embedding extraction and verification",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		DecideLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "presensi_attendance_decide_duration_seconds",
			Help:    "Duration of full attendance decisions including evidence gathering",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}), // operation: "check_in", "check_out"
	}
}

// ObserveEvidenceLatency records the duration of fetching evidence from a source.
func (m *Metrics) ObserveEvidenceLatency(source string, d time.Duration) {
	if m != nil {
		m.EvidenceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(operation, reason string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(operation, reason).Inc()
	}
}

// ObserveFaceVerifyLatency records the remote verification duration.
func (m *Metrics) ObserveFaceVerifyLatency(d time.Duration) {
	if m != nil {
		m.FaceVerifyLatency.Observe(d.Seconds())
	}
}

// ObserveDecideLatency records the total decision duration.
func (m *Metrics) ObserveDecideLatency(operation string, d time.Duration) {
	if m != nil {
		m.DecideLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
