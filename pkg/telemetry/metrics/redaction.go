package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"sentinel-hq/ceres/pkg/config"
)

// RedactionMetrics tracks redaction activity.
//
// Metrics:
//   - sentinel_ceres_redactions_total: Substitutions applied by strategy
type RedactionMetrics struct {
	redactionsTotal *prometheus.CounterVec
}

// NewRedactionMetrics creates and registers redaction metrics with the
// provided registry.
func NewRedactionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RedactionMetrics {
	rm := &RedactionMetrics{
		redactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "redactions_total",
				Help:      "Total number of redaction substitutions applied",
			},
			[]string{"strategy"},
		),
	}

	registry.MustRegister(rm.redactionsTotal)
	return rm
}

// RecordRedactions records substitutions applied by one redaction pass.
func (rm *RedactionMetrics) RecordRedactions(strategy string, count int) {
	if count <= 0 {
		return
	}
	rm.redactionsTotal.WithLabelValues(strategy).Add(float64(count))
}
