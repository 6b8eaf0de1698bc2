// Package audit persists a trail of compliance evaluations: one record per
// evaluated text, carrying a content hash (never the text itself), the
// compliance outcome, the risk assessment summary, and the redaction count.
//
// Records flow through an asynchronous Recorder into a Storage backend, so
// recording never blocks the evaluation path. Two backends ship with the
// module: an in-memory store for tests and ephemeral runs, and a SQLite
// store for durable single-instance deployments. Retention is enforced by a
// pruner, optionally driven on a cron schedule.
package audit
