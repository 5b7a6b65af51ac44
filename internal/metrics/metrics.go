// Package metrics holds the prometheus collectors for scoring and lead intake.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hitchyard"

type Metrics struct {
	scores      *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	composite   *prometheus.HistogramVec
	submissions *prometheus.CounterVec
	notifies    *prometheus.CounterVec
	audits      prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scores: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_computed_total",
			Help:      "Loads scored, by variant.",
		}, []string{"variant"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Loads rejected before scoring, by variant and reason.",
		}, []string{"variant", "reason"}),
		composite: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "composite_score",
			Help:      "Distribution of composite scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"variant"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_submissions_total",
			Help:      "Lead submission attempts, by variant and outcome.",
		}, []string{"variant", "outcome"}),
		notifies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Advisor notifications, by outcome.",
		}, []string{"outcome"}),
		audits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freight_audits_total",
			Help:      "Freight audit requests recorded.",
		}),
	}
}

func (m *Metrics) ScoreComputed(variant string, composite int) {
	if m == nil {
		return
	}
	m.scores.WithLabelValues(variant).Inc()
	m.composite.WithLabelValues(variant).Observe(float64(composite))
}

func (m *Metrics) ValidationRejected(variant, reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(variant, reason).Inc()
}

func (m *Metrics) LeadSubmission(variant string, ok bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(variant, outcome(ok, "stored")).Inc()
}

// Notification records a send outcome: "sent", "failed" or "unconfigured".
func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifies.WithLabelValues(result).Inc()
}

func (m *Metrics) AuditRecorded() {
	if m == nil {
		return
	}
	m.audits.Inc()
}

func outcome(ok bool, success string) string {
	if ok {
		return success
	}
	return "failed"
}
