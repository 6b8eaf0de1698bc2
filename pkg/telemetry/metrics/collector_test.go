package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"sentinel-hq/ceres/pkg/config"
)

func enabledConfig() *config.MetricsConfig {
	cfg := config.DefaultConfig()
	return &cfg.Telemetry.Metrics
}

func TestCollectorRecordEvaluation(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.RecordEvaluation(false, 5*time.Millisecond, map[string]map[string]int{
		"HIPAA": {"critical": 2},
		"GDPR":  {"medium": 1},
	})
	c.RecordEvaluation(true, time.Millisecond, nil)

	if got := testutil.ToFloat64(c.compliance.evaluationsTotal.WithLabelValues("non_compliant")); got != 1 {
		t.Errorf("non_compliant evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.compliance.evaluationsTotal.WithLabelValues("compliant")); got != 1 {
		t.Errorf("compliant evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.compliance.violationsTotal.WithLabelValues("HIPAA", "critical")); got != 2 {
		t.Errorf("HIPAA critical violations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.compliance.violationsTotal.WithLabelValues("GDPR", "medium")); got != 1 {
		t.Errorf("GDPR medium violations = %v, want 1", got)
	}
}

func TestCollectorRecordRiskScore(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.RecordRiskScore(87.5, "critical")

	if got := testutil.ToFloat64(c.compliance.riskLevelTotal.WithLabelValues("critical")); got != 1 {
		t.Errorf("critical level count = %v, want 1", got)
	}
}

func TestCollectorRecordRedactions(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	c.RecordRedactions("token", 3)
	c.RecordRedactions("token", 2)

	if got := testutil.ToFloat64(c.redaction.redactionsTotal.WithLabelValues("token")); got != 5 {
		t.Errorf("token redactions = %v, want 5", got)
	}
}

func TestCollectorAuditMetrics(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)

	am := c.Audit()
	if am == nil {
		t.Fatal("Audit() = nil with metrics enabled")
	}
	am.AuditRecorded()
	am.AuditRecorded()
	am.AuditDropped()

	if got := testutil.ToFloat64(c.audit.recordsTotal); got != 2 {
		t.Errorf("audit records = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.audit.droppedTotal); got != 1 {
		t.Errorf("audit dropped = %v, want 1", got)
	}
}

func TestCollectorDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, nil)

	// Recording is a no-op and the audit counters degrade to nil receivers.
	c.RecordEvaluation(false, time.Millisecond, nil)
	c.RecordRiskScore(50, "medium")
	c.RecordRedactions("hash", 1)

	am := c.Audit()
	if am != nil {
		t.Fatal("Audit() should return nil when metrics are disabled")
	}
	am.AuditRecorded()
	am.AuditDropped()

	if got := testutil.ToFloat64(c.compliance.evaluationsTotal.WithLabelValues("non_compliant")); got != 0 {
		t.Errorf("evaluations = %v, want 0 when disabled", got)
	}
}

func TestCollectorRegistryGather(t *testing.T) {
	c := NewCollector(enabledConfig(), nil)
	c.RecordEvaluation(true, time.Millisecond, nil)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"sentinel_ceres_evaluations_total",
		"sentinel_ceres_evaluation_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered, got %v", want, names)
		}
	}
}
