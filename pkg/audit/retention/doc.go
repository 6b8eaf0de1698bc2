// Package retention enforces age and count limits on the audit trail. A
// Pruner deletes expired records on demand; a Scheduler runs it on a cron
// schedule.
package retention
