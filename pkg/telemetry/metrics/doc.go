// Package metrics provides Prometheus instrumentation for compliance
// evaluation, risk scoring, redaction, and the audit trail. A single
// Collector owns the registry; embedders expose it over HTTP via Handler.
package metrics
