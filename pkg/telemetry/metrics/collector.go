package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sentinel-hq/ceres/pkg/config"
)

// Collector owns all Prometheus metrics for Sentinel Ceres. It manages
// metric registration and provides a unified interface for recording across
// the evaluation, scoring, redaction, and audit components.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	compliance *ComplianceMetrics
	redaction  *RedactionMetrics
	audit      *AuditMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		defaults := config.DefaultConfig()
		cfg = &defaults.Telemetry.Metrics
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.EvaluationDurationBuckets) == 0 {
		cfg.EvaluationDurationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0}
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		compliance: NewComplianceMetrics(cfg, registry),
		redaction:  NewRedactionMetrics(cfg, registry),
		audit:      NewAuditMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEvaluation records one compliance evaluation: its outcome, duration,
// and per-framework violation counts.
func (c *Collector) RecordEvaluation(compliant bool, duration time.Duration, violations map[string]map[string]int) {
	if !c.config.Enabled {
		return
	}
	c.compliance.RecordEvaluation(compliant, duration, violations)
}

// RecordRiskScore records the overall risk score and level of one assessment.
func (c *Collector) RecordRiskScore(score float64, level string) {
	if !c.config.Enabled {
		return
	}
	c.compliance.RecordRiskScore(score, level)
}

// RecordRedactions records substitutions applied by one redaction pass.
func (c *Collector) RecordRedactions(strategy string, count int) {
	if !c.config.Enabled {
		return
	}
	c.redaction.RecordRedactions(strategy, count)
}

// Audit returns the audit outcome counters. The returned value is safe to
// hand to the audit recorder even when metrics are disabled.
func (c *Collector) Audit() *AuditMetrics {
	if !c.config.Enabled {
		return nil
	}
	return c.audit
}
