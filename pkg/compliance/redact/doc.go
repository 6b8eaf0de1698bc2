// Package redact produces sanitized text from detected entities, together
// with an auditable mapping from original spans to replacements.
//
// Replacement strategies are polymorphic over a single Apply capability:
//
//   - FullMask: constant-width mask, deliberately not length-preserving so
//     redacted output does not leak value lengths.
//   - Token: bracketed type tag, e.g. [SSN]; preserves that something of
//     that type was present and where.
//   - PartialMask: first and last character kept, interior masked; for
//     consumers that need format hints without the value.
//   - Hash: deterministic truncated one-way hash tagged with the type,
//     e.g. [SSN:3f2a9c1b]; stable within a process for correlation across
//     redacted records, not reversible.
//
// Pattern-based redaction covers inputs no entity detector has seen, using
// caller-supplied regex patterns.
//
// Overlapping entity spans are resolved deterministically before any
// replacement: the longer span wins, ties go to the higher confidence. The
// redacted string is rebuilt in a single left-to-right pass over sorted,
// non-overlapping spans, so no replacement is ever applied twice and every
// mapping offset refers unambiguously to the input text.
//
// A Pipeline chains stages (e.g. pattern-based secret scrubbing, then
// entity-based PII redaction); each stage consumes the previous stage's
// output and mapping entries record spans relative to that stage's input.
package redact
