package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.,
	// "audit.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

var validSeverities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

var validStrategies = map[string]bool{
	"token": true, "full_mask": true, "partial": true, "hash": true,
}

var validBackends = map[string]bool{
	"memory": true, "sqlite": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "text": true,
}

// Validate validates the entire configuration and returns a ValidationError
// if any rules fail. All errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	if cfg.Rules.Watch && cfg.Rules.Path == "" {
		errs = append(errs, FieldError{
			Field:   "rules.watch",
			Message: "watch requires rules.path to be set",
		})
	}
	if cfg.Rules.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.watch_debounce",
			Message: "must not be negative",
		})
	}

	if !validSeverities[cfg.Engine.BlockSeverity] {
		errs = append(errs, FieldError{
			Field:   "engine.block_severity",
			Message: fmt.Sprintf("unknown severity %q (expected low, medium, high, or critical)", cfg.Engine.BlockSeverity),
		})
	}

	if cfg.Risk.ProximityWindow < 0 {
		errs = append(errs, FieldError{
			Field:   "risk.proximity_window",
			Message: "must not be negative",
		})
	}

	if !validStrategies[cfg.Redaction.Strategy] {
		errs = append(errs, FieldError{
			Field:   "redaction.strategy",
			Message: fmt.Sprintf("unknown strategy %q (expected token, full_mask, partial, or hash)", cfg.Redaction.Strategy),
		})
	}

	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateAudit validates the audit section.
func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("unknown backend %q (expected memory or sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite_path",
			Message: "required for the sqlite backend",
		})
	}
	if cfg.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.async_buffer",
			Message: "must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.write_timeout",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.max_records",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "audit.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateTelemetry validates the telemetry section.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if !validLogLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}
	if !validLogFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format),
		})
	}

	for i, b := range cfg.Metrics.EvaluationDurationBuckets {
		if i > 0 && b <= cfg.Metrics.EvaluationDurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.evaluation_duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}
