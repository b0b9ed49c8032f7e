package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks verification workflow activity.
type Metrics struct {
	AttemptsCreated    prometheus.Counter
	DraftsSaved        prometheus.Counter
	DraftSaveLatency   prometheus.Histogram
	DocumentsReviewed  *prometheus.CounterVec
	DecisionsSubmitted *prometheus.CounterVec
	SubmitConflicts    prometheus.Counter
}

// New creates and registers verification metrics.
func New() *Metrics {
	return &Metrics{
		AttemptsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitdesk_verification_attempts_created_total",
			Help: "Total number of verification attempts created",
		}),
		DraftsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitdesk_verification_drafts_saved_total",
			Help: "Total number of draft snapshots persisted",
		}),
		DraftSaveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "permitdesk_verification_draft_save_latency_seconds",
			Help:    "Latency of draft persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		DocumentsReviewed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "permitdesk_verification_documents_reviewed_total",
			Help: "Total document reviews, labeled by resulting status",
		}, []string{"status"}),
		DecisionsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "permitdesk_verification_decisions_submitted_total",
			Help: "Total decisions submitted, labeled by decision",
		}, []string{"decision"}),
		SubmitConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitdesk_verification_submit_conflicts_total",
			Help: "Total decision submissions rejected because the attempt was already finalized",
		}),
	}
}

// ObserveDraftSave records one draft save and its latency.
func (m *Metrics) ObserveDraftSave(d time.Duration) {
	if m == nil {
		return
	}
	m.DraftsSaved.Inc()
	m.DraftSaveLatency.Observe(d.Seconds())
}
