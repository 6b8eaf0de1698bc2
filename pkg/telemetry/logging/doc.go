// Package logging builds the process logger: slog handlers selected by
// configuration, optionally wrapped so sensitive values detected in log
// fields are scrubbed before writing. The scrubber reuses the same detector
// and redaction strategies as the engine itself.
package logging
