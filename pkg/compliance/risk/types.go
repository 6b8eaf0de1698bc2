package risk

// Level is a risk level derived from a numeric score.
type Level string

// Risk levels, ordered from least to most severe.
const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Level thresholds. These boundaries are part of the external contract:
// LOW < 30 <= MEDIUM < 60 <= HIGH < 85 <= CRITICAL.
const (
	ThresholdMedium   = 30.0
	ThresholdHigh     = 60.0
	ThresholdCritical = 85.0
)

// LevelForScore maps a 0-100 score to its level.
func LevelForScore(score float64) Level {
	switch {
	case score >= ThresholdCritical:
		return LevelCritical
	case score >= ThresholdHigh:
		return LevelHigh
	case score >= ThresholdMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Rank orders levels for comparison (low=0 ... critical=3).
func (l Level) Rank() int {
	switch l {
	case LevelCritical:
		return 3
	case LevelHigh:
		return 2
	case LevelMedium:
		return 1
	default:
		return 0
	}
}

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// Component identifies which part of the pipeline a score belongs to.
type Component string

// Score components.
const (
	ComponentPII        Component = "PII"
	ComponentInjection  Component = "INJECTION"
	ComponentCompliance Component = "COMPLIANCE"
)

// Score is one scored finding (a PII entity, the injection estimate, or a
// compliance violation).
type Score struct {
	// Component is the pipeline component the finding belongs to.
	Component Component

	// Detail names the specific finding: the entity type for PII, the
	// framework for compliance.
	Detail string

	// Value is the finding's score in [0, 100].
	Value float64

	// Level is derived from Value at the fixed thresholds.
	Level Level

	// severityRank breaks ranking ties: violation severity for compliance
	// findings, level rank for PII findings.
	severityRank int

	// inputIndex preserves input order as the final tie-break.
	inputIndex int
}

// Assessment is the complete weighted risk assessment.
type Assessment struct {
	// OverallScore is the weighted combination in [0, 100]:
	// 0.4*pii + 0.3*injection + 0.3*compliance.
	OverallScore float64

	// OverallLevel is derived from OverallScore.
	OverallLevel Level

	// PIIScore is the PII component score (maximum single entity score).
	PIIScore float64

	// InjectionScore is the injection component score, 0-100.
	InjectionScore float64

	// ComplianceScore is the compliance component score (maximum single
	// violation contribution).
	ComplianceScore float64

	// TopRisks holds the five highest-scoring individual findings (PII
	// entities and violations), descending; ties break by severity, then
	// input order.
	TopRisks []Score

	// Recommendations are deterministic guidance strings.
	Recommendations []string

	// TotalEntities is the number of input entities.
	TotalEntities int

	// CriticalCount is the number of individual findings at the critical
	// level.
	CriticalCount int
}
