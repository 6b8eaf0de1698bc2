package config

import (
	"errors"
	"strings"
	"testing"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want ValidationError", err)
	}
	out := make(map[string]string, len(verr.Errors))
	for _, fe := range verr.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.BlockSeverity = "fatal"
	cfg.Redaction.Strategy = "rot13"
	cfg.Audit.Backend = "postgres"
	cfg.Telemetry.Logging.Level = "trace"

	fields := fieldErrors(t, Validate(cfg))
	for _, want := range []string{
		"engine.block_severity",
		"redaction.strategy",
		"audit.backend",
		"telemetry.logging.level",
	} {
		if _, ok := fields[want]; !ok {
			t.Errorf("missing field error for %s, got %v", want, fields)
		}
	}
}

func TestValidateWatchRequiresPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.Watch = true
	cfg.Rules.Path = ""

	fields := fieldErrors(t, Validate(cfg))
	if _, ok := fields["rules.watch"]; !ok {
		t.Errorf("missing rules.watch error, got %v", fields)
	}

	cfg.Rules.Path = "/etc/ceres/rules"
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() with path set: %v", err)
	}
}

func TestValidateSQLitePathRequired(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Backend = "sqlite"
	cfg.Audit.SQLitePath = ""

	fields := fieldErrors(t, Validate(cfg))
	if _, ok := fields["audit.sqlite_path"]; !ok {
		t.Errorf("missing audit.sqlite_path error, got %v", fields)
	}

	// The memory backend needs no path.
	cfg.Audit.Backend = "memory"
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() with memory backend: %v", err)
	}
}

func TestValidateCronSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Retention.Schedule = "every day at three"

	fields := fieldErrors(t, Validate(cfg))
	if _, ok := fields["audit.retention.schedule"]; !ok {
		t.Errorf("missing schedule error, got %v", fields)
	}

	// Empty disables scheduling and is valid.
	cfg.Audit.Retention.Schedule = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() with empty schedule: %v", err)
	}
}

func TestValidateNegativeValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.WatchDebounce = -1
	cfg.Risk.ProximityWindow = -1
	cfg.Audit.Retention.Days = -1
	cfg.Audit.Retention.MaxRecords = -1

	fields := fieldErrors(t, Validate(cfg))
	for _, want := range []string{
		"rules.watch_debounce",
		"risk.proximity_window",
		"audit.retention.days",
		"audit.retention.max_records",
	} {
		if _, ok := fields[want]; !ok {
			t.Errorf("missing field error for %s, got %v", want, fields)
		}
	}
}

func TestValidateHistogramBuckets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.Metrics.EvaluationDurationBuckets = []float64{0.001, 0.001, 0.01}

	fields := fieldErrors(t, Validate(cfg))
	if _, ok := fields["telemetry.metrics.evaluation_duration_buckets"]; !ok {
		t.Errorf("missing buckets error, got %v", fields)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Errors: []FieldError{
		{Field: "a.b", Message: "bad"},
		{Field: "c.d", Message: "worse"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors") || !strings.Contains(msg, "a.b: bad") {
		t.Errorf("Error() = %q", msg)
	}
}
