// Package storage provides audit.Storage backends: an in-memory store for
// tests and ephemeral runs, and a SQLite store for durable single-instance
// deployments.
package storage
