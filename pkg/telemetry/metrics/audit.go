package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"sentinel-hq/ceres/pkg/config"
)

// AuditMetrics tracks audit trail outcomes. It satisfies the recorder's
// Metrics interface.
//
// Metrics:
//   - sentinel_ceres_audit_records_total: Records durably stored
//   - sentinel_ceres_audit_dropped_total: Records lost to backpressure or
//     storage failures
type AuditMetrics struct {
	recordsTotal prometheus.Counter
	droppedTotal prometheus.Counter
}

// NewAuditMetrics creates and registers audit metrics with the provided
// registry.
func NewAuditMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		recordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_records_total",
				Help:      "Total number of audit records stored",
			},
		),
		droppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_dropped_total",
				Help:      "Total number of audit records dropped",
			},
		),
	}

	registry.MustRegister(am.recordsTotal, am.droppedTotal)
	return am
}

// AuditRecorded counts a durably stored record. Safe on a nil receiver so a
// disabled collector can still be handed to the recorder.
func (am *AuditMetrics) AuditRecorded() {
	if am == nil {
		return
	}
	am.recordsTotal.Inc()
}

// AuditDropped counts a lost record.
func (am *AuditMetrics) AuditDropped() {
	if am == nil {
		return
	}
	am.droppedTotal.Inc()
}
