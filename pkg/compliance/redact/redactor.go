package redact

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"sentinel-hq/ceres/pkg/detect"
)

// Entry records one substitution in the audit trail. Start and End are byte
// offsets into the text the substitution was applied to.
type Entry struct {
	// Start and End delimit the original span, End exclusive.
	Start int
	End   int

	// EntityType is the entity type (or pattern name) that drove the
	// substitution.
	EntityType string

	// Original is the replaced substring.
	Original string

	// Replacement is the substituted text.
	Replacement string

	// Strategy names the strategy that produced the replacement.
	Strategy string

	// Stage is the pipeline stage index that produced this entry, zero
	// outside pipelines. Spans refer to that stage's input text.
	Stage int
}

// Mapping is the ordered audit trail of one redaction pass. Entries are
// sorted by span start and spans never overlap.
type Mapping []Entry

// Redactor applies replacement strategies to text. It holds no per-call
// state and is safe for concurrent use.
type Redactor struct {
	logger *slog.Logger
}

// NewRedactor creates a redactor. A nil logger uses slog.Default().
func NewRedactor(logger *slog.Logger) *Redactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redactor{logger: logger.With("component", "redact")}
}

// Redact replaces every entity span in text using the strategy, returning
// the rewritten text and the audit mapping.
//
// Entities with invalid spans (negative start, end not after start, or end
// past the text) are skipped. Overlapping spans are resolved before
// replacement: the longer span wins, ties go to the higher confidence, and
// the loser is discarded entirely.
func (r *Redactor) Redact(text string, entities []detect.Entity, strategy Strategy) (string, Mapping) {
	resolved := ResolveOverlaps(validSpans(text, entities))
	if len(resolved) == 0 {
		return text, nil
	}

	var (
		b       strings.Builder
		mapping = make(Mapping, 0, len(resolved))
		cursor  = 0
	)
	for _, entity := range resolved {
		replacement := strategy.Apply(entity.Type, entity.Value)

		b.WriteString(text[cursor:entity.Start])
		b.WriteString(replacement)
		cursor = entity.End

		mapping = append(mapping, Entry{
			Start:       entity.Start,
			End:         entity.End,
			EntityType:  entity.Type,
			Original:    entity.Value,
			Replacement: replacement,
			Strategy:    strategy.Name(),
		})
	}
	b.WriteString(text[cursor:])

	r.logger.Debug("entities redacted",
		"strategy", strategy.Name(),
		"count", len(mapping),
	)

	return b.String(), mapping
}

// RedactPattern redacts every match of the named regex patterns, for inputs
// no entity detector has processed. Pattern names become the entity type in
// the mapping. Matches from all patterns are merged and overlaps resolved
// the same way entity spans are (longer match wins; between patterns of
// equal length the one whose name sorts first wins, keeping output
// deterministic).
//
// An invalid pattern fails the whole call; a silently skipped pattern would
// make the output look sanitized when it is not.
func (r *Redactor) RedactPattern(text string, patterns map[string]string, strategy Strategy) (string, Mapping, error) {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	var candidates []detect.Entity
	for _, name := range names {
		re, err := regexp.Compile(patterns[name])
		if err != nil {
			return "", nil, fmt.Errorf("invalid pattern %q: %w", name, err)
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, detect.Entity{
				Type:       name,
				Value:      text[loc[0]:loc[1]],
				Start:      loc[0],
				End:        loc[1],
				Confidence: 1.0,
			})
		}
	}

	redacted, mapping := r.Redact(text, candidates, strategy)
	return redacted, mapping, nil
}

// ResolveOverlaps sorts entities by span start and discards overlap losers.
// The winner of an overlap is the larger span; equal spans go to the higher
// confidence; still-equal candidates keep the earlier one. The result is
// sorted and non-overlapping, and the resolution is deterministic for any
// input order.
func ResolveOverlaps(entities []detect.Entity) []detect.Entity {
	if len(entities) <= 1 {
		return entities
	}

	sorted := make([]detect.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() > sorted[j].Len()
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := sorted[:1]
	for _, next := range sorted[1:] {
		last := kept[len(kept)-1]
		if !next.Overlaps(last) {
			kept = append(kept, next)
			continue
		}
		if wins(next, last) {
			kept[len(kept)-1] = next
		}
	}
	return kept
}

// wins reports whether challenger displaces incumbent in an overlap.
func wins(challenger, incumbent detect.Entity) bool {
	if challenger.Len() != incumbent.Len() {
		return challenger.Len() > incumbent.Len()
	}
	return challenger.Confidence > incumbent.Confidence
}

// validSpans filters out entities whose spans do not address the text.
func validSpans(text string, entities []detect.Entity) []detect.Entity {
	out := make([]detect.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Start < 0 || e.End <= e.Start || e.End > len(text) {
			continue
		}
		out = append(out, e)
	}
	return out
}
