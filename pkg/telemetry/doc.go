// Package telemetry groups the observability packages for Sentinel Ceres.
//
//   - logging: structured slog logging with sensitive value scrubbing
//   - metrics: Prometheus collectors for evaluation, scoring, redaction, and
//     the audit trail
//
// Both packages are configured through pkg/config and attach to whatever the
// embedding process provides: logging writes to any io.Writer, metrics
// register on any Prometheus registry.
package telemetry
