package config

import "time"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRulesWatch         = false
	DefaultRulesWatchDebounce = 250 * time.Millisecond

	// Engine defaults
	DefaultBlockSeverity = "critical"

	// Risk defaults
	DefaultProximityWindow = 100

	// Redaction defaults
	DefaultRedactionStrategy = "token"

	// Audit defaults
	DefaultAuditEnabled      = false
	DefaultAuditBackend      = "sqlite"
	DefaultAuditSQLitePath   = "data/audit.db"
	DefaultAuditBusyTimeout  = 5 * time.Second
	DefaultAuditAsyncBuffer  = 1000
	DefaultAuditWriteTimeout = 5 * time.Second

	// Retention defaults
	DefaultRetentionDays       = 90
	DefaultRetentionMaxRecords = int64(0)
	DefaultRetentionSchedule   = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultLogRedactValues  = true
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "sentinel"
	DefaultMetricsSubsystem = "ceres"
)

// ApplyDefaults fills in default values for unset configuration fields.
// Fields with explicit values are left untouched.
func ApplyDefaults(cfg *Config) {
	if cfg.Rules.WatchDebounce == 0 {
		cfg.Rules.WatchDebounce = DefaultRulesWatchDebounce
	}

	if cfg.Engine.BlockSeverity == "" {
		cfg.Engine.BlockSeverity = DefaultBlockSeverity
	}

	if cfg.Risk.ProximityWindow == 0 {
		cfg.Risk.ProximityWindow = DefaultProximityWindow
	}

	if cfg.Redaction.Strategy == "" {
		cfg.Redaction.Strategy = DefaultRedactionStrategy
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Audit.BusyTimeout == 0 {
		cfg.Audit.BusyTimeout = DefaultAuditBusyTimeout
	}
	if cfg.Audit.AsyncBuffer == 0 {
		cfg.Audit.AsyncBuffer = DefaultAuditAsyncBuffer
	}
	if cfg.Audit.WriteTimeout == 0 {
		cfg.Audit.WriteTimeout = DefaultAuditWriteTimeout
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.EvaluationDurationBuckets) == 0 {
		// Rule evaluation is regex-bound and fast (10µs to 100ms).
		cfg.Telemetry.Metrics.EvaluationDurationBuckets = []float64{
			0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1.0,
		}
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{
		Audit: AuditConfig{
			Enabled: DefaultAuditEnabled,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				RedactValues: DefaultLogRedactValues,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
