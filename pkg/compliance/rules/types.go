package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Framework identifies a regulatory rule set.
type Framework string

// Supported compliance frameworks.
const (
	FrameworkHIPAA    Framework = "HIPAA"
	FrameworkGDPR     Framework = "GDPR"
	FrameworkPCIDSS   Framework = "PCI-DSS"
	FrameworkSOC2     Framework = "SOC2"
	FrameworkCCPA     Framework = "CCPA"
	FrameworkPIPEDA   Framework = "PIPEDA"
	FrameworkSecurity Framework = "Security"
)

// knownFrameworks maps normalized spellings to canonical Framework values.
// PCI-DSS is commonly written with an underscore; both forms are accepted.
var knownFrameworks = map[string]Framework{
	"HIPAA":    FrameworkHIPAA,
	"GDPR":     FrameworkGDPR,
	"PCI-DSS":  FrameworkPCIDSS,
	"PCI_DSS":  FrameworkPCIDSS,
	"SOC2":     FrameworkSOC2,
	"CCPA":     FrameworkCCPA,
	"PIPEDA":   FrameworkPIPEDA,
	"SECURITY": FrameworkSecurity,
}

// ParseFramework parses a framework name, case-insensitively.
func ParseFramework(s string) (Framework, error) {
	fw, ok := knownFrameworks[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown framework: %q", s)
	}
	return fw, nil
}

// String returns the canonical framework name.
func (f Framework) String() string {
	return string(f)
}

// Severity is the ordered severity of a rule or violation.
type Severity string

// Severity levels, ordered from least to most severe.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for comparison.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severityRank[sev]; !ok {
		return "", fmt.Errorf("unknown severity: %q", s)
	}
	return sev, nil
}

// Rank returns the numeric rank of the severity (low=0 ... critical=3).
// Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// String returns the severity name.
func (s Severity) String() string {
	return string(s)
}

// Action is what the caller should do when a rule is violated.
type Action string

// Supported actions.
const (
	// ActionFlag records the violation but allows the content through.
	ActionFlag Action = "flag"

	// ActionRedact requests redaction of the matching content.
	ActionRedact Action = "redact"

	// ActionBlock rejects the content entirely.
	ActionBlock Action = "block"
)

var knownActions = map[Action]bool{
	ActionFlag:   true,
	ActionRedact: true,
	ActionBlock:  true,
}

// ParseAction parses an action name, case-insensitively.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !knownActions[a] {
		return "", fmt.Errorf("unknown action: %q", s)
	}
	return a, nil
}

// String returns the action name.
func (a Action) String() string {
	return string(a)
}

// Rule is a single immutable compliance rule. Rules are constructed by the
// loader and never mutated afterwards; a Rule value may be read concurrently.
type Rule struct {
	// ID uniquely identifies the rule across all frameworks.
	ID string

	// Framework is the regulatory framework this rule belongs to.
	Framework Framework

	// Name is the human-readable rule name.
	Name string

	// Description explains what the rule detects.
	Description string

	// Severity is the violation severity when the rule matches.
	Severity Severity

	// Action is what the caller should do on a match.
	Action Action

	// EntityTypes is the set of detected-entity types that satisfy the
	// entity criterion. Empty means the criterion is absent.
	EntityTypes []string

	// Keywords are case-insensitive substrings that satisfy the keyword
	// criterion. Empty means the criterion is absent.
	Keywords []string

	// Pattern is the source text of the regex criterion, empty if absent.
	Pattern string

	// Remediation is guidance attached to violations of this rule.
	Remediation string

	// compiled is the compiled form of Pattern, nil if Pattern is empty.
	// Compiled once at load time so evaluation never fails on regex errors.
	compiled *regexp.Regexp
}

// HasCriteria reports whether the rule has at least one match criterion.
// A rule without criteria is valid but never matches.
func (r *Rule) HasCriteria() bool {
	return len(r.EntityTypes) > 0 || len(r.Keywords) > 0 || r.Pattern != ""
}

// Regexp returns the compiled pattern criterion, or nil if the rule has none.
func (r *Rule) Regexp() *regexp.Regexp {
	return r.compiled
}
