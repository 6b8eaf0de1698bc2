package risk

// Recommendation strings. These are deterministic outputs keyed on the
// findings, with no randomness, so fixtures can assert on them exactly.
const (
	RecommendBlock   = "Block or quarantine the content pending compliance review"
	RecommendRedact  = "Redact detected identifiers before storage or onward transmission"
	RecommendHarden  = "Sanitize prompt input and enforce instruction-following guardrails"
	RecommendMonitor = "No immediate action required; continue monitoring"
)

// recommend derives guidance from the assessment. Order is fixed:
// compliance first (it implies the strongest action), then PII, then an
// injection note when injection dominates a high overall level. When nothing
// warrants action, the single monitoring recommendation is returned.
func recommend(a *Assessment, piiFindings, violationFindings []Score) []string {
	var out []string

	if anyAtLeastHigh(violationFindings) {
		out = append(out, RecommendBlock)
	}
	if anyAtLeastHigh(piiFindings) {
		out = append(out, RecommendRedact)
	}
	if injectionDominates(a) && a.OverallLevel.Rank() >= LevelHigh.Rank() {
		out = append(out, RecommendHarden)
	}

	if len(out) == 0 {
		out = append(out, RecommendMonitor)
	}
	return out
}

// anyAtLeastHigh reports whether any finding reaches the high level.
func anyAtLeastHigh(findings []Score) bool {
	for _, f := range findings {
		if f.Level.Rank() >= LevelHigh.Rank() {
			return true
		}
	}
	return false
}

// injectionDominates reports whether the injection component is the largest
// contributor to the overall score.
func injectionDominates(a *Assessment) bool {
	return a.InjectionScore > a.PIIScore && a.InjectionScore > a.ComplianceScore
}
