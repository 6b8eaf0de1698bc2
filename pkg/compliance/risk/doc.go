// Package risk converts detected entities, an injection-likelihood score,
// and compliance violations into a single weighted risk assessment.
//
// The component scores are combined with fixed weights (0.4 PII,
// 0.3 injection, 0.3 compliance) and mapped to levels at fixed thresholds
// (LOW < 30 <= MEDIUM < 60 <= HIGH < 85 <= CRITICAL). The thresholds and
// level names are a published contract and must not drift; downstream
// consumers branch on the exact names.
//
// PII and compliance component scores are the MAXIMUM single finding, not a
// sum or average. Many low-risk findings therefore do not inflate the
// component past its worst member. This under-weights texts with many
// simultaneous medium findings relative to one severe finding; it is kept
// as specified behavior because changing it would change observable scores.
package risk
