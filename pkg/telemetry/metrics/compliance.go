package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sentinel-hq/ceres/pkg/config"
)

// ComplianceMetrics tracks compliance evaluation and risk scoring outcomes.
//
// Metrics:
//   - sentinel_ceres_evaluations_total: Evaluations by outcome
//   - sentinel_ceres_violations_total: Violations by framework and severity
//   - sentinel_ceres_evaluation_duration_seconds: Evaluation latency
//   - sentinel_ceres_risk_score: Distribution of overall risk scores
//   - sentinel_ceres_risk_level_total: Assessments by overall level
type ComplianceMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	violationsTotal    *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	riskScore          prometheus.Histogram
	riskLevelTotal     *prometheus.CounterVec
}

// NewComplianceMetrics creates and registers compliance metrics with the
// provided registry.
func NewComplianceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ComplianceMetrics {
	cm := &ComplianceMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of compliance evaluations",
			},
			[]string{"outcome"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of rule violations",
			},
			[]string{"framework", "severity"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of compliance evaluation in seconds",
				Buckets:   cfg.EvaluationDurationBuckets,
			},
		),

		riskScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "risk_score",
				Help:      "Distribution of overall risk scores (0-100)",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),

		riskLevelTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "risk_level_total",
				Help:      "Total number of risk assessments by overall level",
			},
			[]string{"level"},
		),
	}

	registry.MustRegister(
		cm.evaluationsTotal,
		cm.violationsTotal,
		cm.evaluationDuration,
		cm.riskScore,
		cm.riskLevelTotal,
	)

	return cm
}

// RecordEvaluation records one evaluation. violations maps framework to
// severity to count.
func (cm *ComplianceMetrics) RecordEvaluation(compliant bool, duration time.Duration, violations map[string]map[string]int) {
	outcome := "compliant"
	if !compliant {
		outcome = "non_compliant"
	}
	cm.evaluationsTotal.WithLabelValues(outcome).Inc()
	cm.evaluationDuration.Observe(duration.Seconds())

	for framework, bySeverity := range violations {
		for severity, count := range bySeverity {
			cm.violationsTotal.WithLabelValues(framework, severity).Add(float64(count))
		}
	}
}

// RecordRiskScore records one risk assessment outcome.
func (cm *ComplianceMetrics) RecordRiskScore(score float64, level string) {
	cm.riskScore.Observe(score)
	cm.riskLevelTotal.WithLabelValues(level).Inc()
}
