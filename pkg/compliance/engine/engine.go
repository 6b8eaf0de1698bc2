package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sentinel-hq/ceres/pkg/compliance/rules"
	"sentinel-hq/ceres/pkg/detect"
)

// Config contains engine configuration.
type Config struct {
	// BlockSeverity is the severity at or above which a result is marked
	// non-compliant even when no rule carries the block action.
	// Default: critical.
	BlockSeverity rules.Severity

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		BlockSeverity: rules.SeverityCritical,
	}
}

// Engine evaluates text against a rule store. It holds only the store
// reference and configuration, both read-only, so one engine serves any
// number of concurrent evaluations.
type Engine struct {
	store  *rules.Store
	config *Config
	logger *slog.Logger
}

// New creates an engine over the given store. A nil config uses defaults.
func New(store *rules.Store, config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BlockSeverity == "" {
		config.BlockSeverity = rules.SeverityCritical
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		config: config,
		logger: logger.With("component", "compliance.engine"),
	}
}

// Evaluate checks text and its detected entities against the rules of the
// given frameworks. With no frameworks given, all loaded frameworks are
// evaluated.
//
// Arbitrary text and an empty entity list are valid input and produce an
// empty, compliant result. The only error condition is a request for a
// framework that was never loaded (*rules.UnknownFrameworkError); an unknown
// name is not defaulted to "all frameworks", so a typo'd framework fails
// loudly instead of silently widening the scan.
func (e *Engine) Evaluate(text string, entities []detect.Entity, frameworks ...rules.Framework) (*Result, error) {
	start := time.Now()

	selected, err := e.store.RulesFor(frameworks...)
	if err != nil {
		return nil, err
	}

	checked := frameworks
	if len(checked) == 0 {
		checked = e.store.Frameworks()
	}

	result := &Result{
		FrameworksChecked: checked,
		SummaryBySeverity: make(map[rules.Severity]int),
	}

	textLower := strings.ToLower(text)
	for _, rule := range selected {
		violation, matched := e.checkRule(rule, text, textLower, entities)
		if !matched {
			continue
		}
		result.Violations = append(result.Violations, violation)
		result.SummaryBySeverity[violation.Severity]++
	}

	result.Compliant = e.isCompliant(result)
	result.EvaluationTime = time.Since(start)

	e.logger.Debug("evaluation completed",
		"frameworks", len(checked),
		"rules", len(selected),
		"violations", len(result.Violations),
		"compliant", result.Compliant,
		"duration", result.EvaluationTime,
	)

	return result, nil
}

// checkRule evaluates a single rule. All criteria present on the rule must
// be satisfied for the rule to match; a rule with no criteria never matches.
func (e *Engine) checkRule(rule *rules.Rule, text, textLower string, entities []detect.Entity) (Violation, bool) {
	if !rule.HasCriteria() {
		return Violation{}, false
	}

	var (
		entityType    string
		entityValue   string
		keywordMatch  string
		patternMatch  string
		evidenceParts []string
	)

	if len(rule.EntityTypes) > 0 {
		entity, ok := firstMatchingEntity(rule.EntityTypes, entities)
		if !ok {
			return Violation{}, false
		}
		entityType = entity.Type
		entityValue = entity.Value
		evidenceParts = append(evidenceParts, fmt.Sprintf("entity %s", entityType))
	}

	if len(rule.Keywords) > 0 {
		kw, ok := firstMatchingKeyword(rule.Keywords, textLower)
		if !ok {
			return Violation{}, false
		}
		keywordMatch = kw
		evidenceParts = append(evidenceParts, fmt.Sprintf("keyword %q", kw))
	}

	if re := rule.Regexp(); re != nil {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return Violation{}, false
		}
		patternMatch = text[loc[0]:loc[1]]
		evidenceParts = append(evidenceParts, "pattern match")
	}

	// Most specific evidence wins: entity value, then pattern match, then
	// the keyword itself.
	matched := entityValue
	if matched == "" {
		matched = patternMatch
	}
	if matched == "" {
		matched = keywordMatch
	}

	return Violation{
		RuleID:            rule.ID,
		Framework:         rule.Framework,
		RuleName:          rule.Name,
		Severity:          rule.Severity,
		Action:            rule.Action,
		Message:           fmt.Sprintf("%s: %s", rule.Name, strings.Join(evidenceParts, ", ")),
		Remediation:       rule.Remediation,
		MatchedEntityType: entityType,
		MatchedContent:    matched,
	}, true
}

// isCompliant applies the compliance decision: any block action, or any
// violation at or above the blocking severity, makes the result
// non-compliant.
func (e *Engine) isCompliant(result *Result) bool {
	if result.HasBlockingViolation() {
		return false
	}
	if max, ok := result.MaxSeverity(); ok && max.AtLeast(e.config.BlockSeverity) {
		return false
	}
	return true
}

// firstMatchingEntity returns the first input entity whose type is in the
// rule's required set. Input order decides which entity becomes evidence.
func firstMatchingEntity(required []string, entities []detect.Entity) (detect.Entity, bool) {
	want := make(map[string]bool, len(required))
	for _, t := range required {
		want[t] = true
	}
	for _, entity := range entities {
		if want[entity.Type] {
			return entity, true
		}
	}
	return detect.Entity{}, false
}

// firstMatchingKeyword returns the first rule keyword present in the
// lowercased text.
func firstMatchingKeyword(keywords []string, textLower string) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(textLower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}
