package config

import "time"

// Config is the root configuration structure for Sentinel Ceres. It contains
// all configuration sections for rule loading, compliance evaluation, risk
// scoring, redaction, the audit trail, and telemetry.
type Config struct {
	// Rules contains configuration for compliance rule loading including the
	// rule directory and watch mode.
	Rules RulesConfig `yaml:"rules"`

	// Engine contains configuration for the compliance engine.
	Engine EngineConfig `yaml:"engine"`

	// Risk contains configuration for risk scoring.
	Risk RiskConfig `yaml:"risk"`

	// Redaction contains configuration for the redaction layer.
	Redaction RedactionConfig `yaml:"redaction"`

	// Audit contains configuration for audit recording, storage, and
	// retention.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig contains configuration for compliance rule loading.
type RulesConfig struct {
	// Path is a directory of YAML rule files. When empty, the built-in rule
	// set is used.
	// Default: "" (built-in rules)
	Path string `yaml:"path"`

	// Watch enables file watching on Path so rule edits trigger a reload.
	// Ignored when Path is empty.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is how long to coalesce bursts of file events before
	// reloading.
	// Default: 250ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// EngineConfig contains configuration for the compliance engine.
type EngineConfig struct {
	// Frameworks lists the frameworks to check by default. Empty means all
	// loaded frameworks.
	Frameworks []string `yaml:"frameworks"`

	// BlockSeverity is the severity at or above which a violation makes the
	// result non-compliant even without a block action.
	// Default: "critical"
	BlockSeverity string `yaml:"block_severity"`
}

// RiskConfig contains configuration for risk scoring.
type RiskConfig struct {
	// ProximityWindow is the maximum gap in bytes between two entities for
	// them to count as clustered.
	// Default: 100
	ProximityWindow int `yaml:"proximity_window"`
}

// RedactionConfig contains configuration for the redaction layer.
type RedactionConfig struct {
	// Strategy is the default redaction strategy: "token", "full_mask",
	// "partial", or "hash".
	// Default: "token"
	Strategy string `yaml:"strategy"`

	// HashKey is an optional HMAC key for the hash strategy. Empty uses
	// plain SHA-256.
	HashKey string `yaml:"hash_key"`
}

// AuditConfig contains configuration for the audit trail.
type AuditConfig struct {
	// Enabled enables audit recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// BusyTimeout is how long SQLite waits for locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// AsyncBuffer is the size of the recorder's async write buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds enqueueing and storage writes.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention controls pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains configuration for audit retention.
type RetentionConfig struct {
	// Days is the number of days to retain records. 0 keeps records forever.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep. 0 is unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression for scheduled pruning. Empty disables
	// the scheduler.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// RedactValues enables redaction of sensitive values in log fields.
	// Default: true
	RedactValues bool `yaml:"redact_values"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	// Default: "sentinel"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	// Default: "ceres"
	Subsystem string `yaml:"subsystem"`

	// EvaluationDurationBuckets are histogram buckets for evaluation
	// latency in seconds.
	EvaluationDurationBuckets []float64 `yaml:"evaluation_duration_buckets"`
}
