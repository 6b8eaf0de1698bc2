package detect

import (
	"regexp"
	"strings"
)

// InjectionResult describes a prompt-injection likelihood estimate.
type InjectionResult struct {
	// Detected indicates at least one injection pattern matched.
	Detected bool

	// Score is the injection likelihood in [0, 1]. It feeds directly into
	// the risk scorer's injection component.
	Score float64

	// MatchedPatterns lists the source patterns that matched.
	MatchedPatterns []string
}

// defaultInjectionPhrases are instruction-override phrases matched
// case-insensitively as literal substrings.
var defaultInjectionPhrases = []string{
	"ignore previous instructions",
	"ignore all previous instructions",
	"disregard your instructions",
	"forget your instructions",
	"you are now",
	"pretend you are",
	"act as if",
	"system prompt",
	"reveal your prompt",
}

// InjectionDetector estimates prompt-injection likelihood from a fixed
// phrase list. Scores are tiered on match count rather than continuous, so
// results are deterministic and directly testable.
type InjectionDetector struct {
	patterns []*regexp.Regexp
	sources  []string
}

// NewInjectionDetector creates a detector over the given phrases, or the
// built-in phrase list if none are given. Phrases are matched as
// case-insensitive literals.
func NewInjectionDetector(phrases ...string) *InjectionDetector {
	if len(phrases) == 0 {
		phrases = defaultInjectionPhrases
	}

	d := &InjectionDetector{
		patterns: make([]*regexp.Regexp, 0, len(phrases)),
		sources:  make([]string, 0, len(phrases)),
	}
	for _, phrase := range phrases {
		d.patterns = append(d.patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)))
		d.sources = append(d.sources, phrase)
	}
	return d
}

// Analyze scores the text for injection likelihood. Confidence tiers:
// one matching phrase 0.75, two 0.85, three or more 0.95.
func (d *InjectionDetector) Analyze(text string) InjectionResult {
	if strings.TrimSpace(text) == "" {
		return InjectionResult{}
	}

	var matched []string
	for i, re := range d.patterns {
		if re.MatchString(text) {
			matched = append(matched, d.sources[i])
		}
	}

	if len(matched) == 0 {
		return InjectionResult{}
	}

	var score float64
	switch {
	case len(matched) >= 3:
		score = 0.95
	case len(matched) == 2:
		score = 0.85
	default:
		score = 0.75
	}

	return InjectionResult{
		Detected:        true,
		Score:           score,
		MatchedPatterns: matched,
	}
}
