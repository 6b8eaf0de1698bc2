package engine

import (
	"time"

	"sentinel-hq/ceres/pkg/compliance/rules"
)

// Violation is the result of one rule matching one evaluation input.
// Violations are value objects; they are never mutated after construction.
type Violation struct {
	// RuleID identifies the matched rule.
	RuleID string

	// Framework is the rule's regulatory framework.
	Framework rules.Framework

	// RuleName is the rule's human-readable name.
	RuleName string

	// Severity is the rule's severity.
	Severity rules.Severity

	// Action is what the caller should do about this violation.
	Action rules.Action

	// Message is a human-readable description of the match.
	Message string

	// Remediation is the rule's remediation guidance.
	Remediation string

	// MatchedEntityType is the entity type that satisfied the entity
	// criterion, empty if the rule has no entity criterion.
	MatchedEntityType string

	// MatchedContent is the triggering evidence: the matched entity value,
	// keyword, or regex match, preferring the most specific available.
	MatchedContent string
}

// Result aggregates one evaluation run. It is created fresh per call, never
// mutated after construction, and owned by the caller.
type Result struct {
	// Compliant is false iff any violation carries the block action or any
	// violation reaches the engine's blocking severity (critical by
	// default).
	Compliant bool

	// Violations lists all violations in rule-store order.
	Violations []Violation

	// FrameworksChecked lists the frameworks that were evaluated, in store
	// load order.
	FrameworksChecked []rules.Framework

	// SummaryBySeverity counts violations per severity.
	SummaryBySeverity map[rules.Severity]int

	// EvaluationTime is how long the evaluation took.
	EvaluationTime time.Duration
}

// MaxSeverity returns the highest severity among violations, or false if
// there are none.
func (r *Result) MaxSeverity() (rules.Severity, bool) {
	var max rules.Severity
	found := false
	for _, v := range r.Violations {
		if !found || v.Severity.Rank() > max.Rank() {
			max = v.Severity
			found = true
		}
	}
	return max, found
}

// HasBlockingViolation reports whether any violation carries ActionBlock.
func (r *Result) HasBlockingViolation() bool {
	for _, v := range r.Violations {
		if v.Action == rules.ActionBlock {
			return true
		}
	}
	return false
}
