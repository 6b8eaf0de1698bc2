// Package detect defines the detected-entity value type the compliance core
// consumes, and provides regex-based default implementations for entity and
// prompt-injection detection.
//
// The compliance engine, risk scorer, and redaction service only depend on
// the Entity value type and never on a concrete detector: callers with a
// richer NER pipeline can supply entities from anywhere. RegexDetector and
// InjectionDetector exist so the module is usable end to end without an
// external detector.
package detect
