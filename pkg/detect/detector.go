package detect

import (
	"regexp"
	"sort"
)

// piiPattern pairs an entity type with its compiled pattern and the
// confidence assigned to matches. Regex detection confidence is fixed per
// type: formats like SSNs are near-unambiguous, phone numbers less so.
type piiPattern struct {
	entityType string
	re         *regexp.Regexp
	confidence float64
}

// defaultPatterns are the built-in PII patterns, compiled once at package
// init. Order determines detection order; span sorting happens afterwards.
var defaultPatterns = []piiPattern{
	{
		entityType: TypeSSN,
		re:         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		confidence: 0.95,
	},
	{
		entityType: TypeCreditCard,
		re:         regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
		confidence: 0.90,
	},
	{
		entityType: TypeEmail,
		re:         regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		confidence: 0.95,
	},
	{
		entityType: TypePhoneNumber,
		re:         regexp.MustCompile(`\b(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		confidence: 0.75,
	},
	{
		entityType: TypeIPAddress,
		re:         regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		confidence: 0.85,
	},
	{
		entityType: TypeAPIKey,
		re:         regexp.MustCompile(`\b(?:sk|pk|AKIA|ghp|xox[bp])[-_][A-Za-z0-9]{16,}\b`),
		confidence: 0.90,
	},
}

// RegexDetector detects PII entities using compiled regular expressions.
// It has no mutable state after construction and is safe for concurrent use.
type RegexDetector struct {
	patterns []piiPattern
}

// NewRegexDetector creates a detector with the built-in pattern set,
// optionally restricted to the given entity types. With no types given, all
// built-in patterns are active.
func NewRegexDetector(types ...string) *RegexDetector {
	if len(types) == 0 {
		return &RegexDetector{patterns: defaultPatterns}
	}

	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var active []piiPattern
	for _, p := range defaultPatterns {
		if want[p.entityType] {
			active = append(active, p)
		}
	}
	return &RegexDetector{patterns: active}
}

// Detect returns all entities found in text, sorted by span start (ties by
// longer span first). Overlapping spans across pattern types are preserved;
// overlap resolution is the redaction service's job.
func (d *RegexDetector) Detect(text string) []Entity {
	if text == "" {
		return nil
	}

	var entities []Entity
	for _, p := range d.patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			entities = append(entities, Entity{
				Type:       p.entityType,
				Value:      text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: p.confidence,
			})
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].Len() > entities[j].Len()
	})
	return entities
}

// Types returns the entity types this detector can emit.
func (d *RegexDetector) Types() []string {
	out := make([]string, len(d.patterns))
	for i, p := range d.patterns {
		out[i] = p.entityType
	}
	return out
}
