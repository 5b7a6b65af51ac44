package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) float64 {
	for _, m := range mf.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ScoreComputed("check-my-load", 80)
	m.ScoreComputed("check-my-load", 88)
	m.ValidationRejected("check-my-load", "too few pallets for service")
	m.LeadSubmission("check-my-load", true)
	m.LeadSubmission("check-my-load", false)
	m.Notification("sent")
	m.AuditRecorded()

	families := gather(t, reg)

	assert.Equal(t, 2.0, counterValue(families["hitchyard_scores_computed_total"], map[string]string{"variant": "check-my-load"}))
	assert.Equal(t, 1.0, counterValue(families["hitchyard_validation_rejections_total"], map[string]string{"reason": "too few pallets for service"}))
	assert.Equal(t, 1.0, counterValue(families["hitchyard_lead_submissions_total"], map[string]string{"outcome": "stored"}))
	assert.Equal(t, 1.0, counterValue(families["hitchyard_lead_submissions_total"], map[string]string{"outcome": "failed"}))
	assert.Equal(t, 1.0, counterValue(families["hitchyard_notifications_total"], map[string]string{"outcome": "sent"}))
	assert.Equal(t, 1.0, counterValue(families["hitchyard_freight_audits_total"], nil))

	hist := families["hitchyard_composite_score"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.Equal(t, 168.0, hist.GetSampleSum())
}

func TestNilMetricsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ScoreComputed("v", 50)
		m.ValidationRejected("v", "r")
		m.LeadSubmission("v", true)
		m.Notification("failed")
		m.AuditRecorded()
	})
}
