package risk

import (
	"log/slog"
	"sort"

	"sentinel-hq/ceres/pkg/compliance/engine"
	"sentinel-hq/ceres/pkg/compliance/rules"
	"sentinel-hq/ceres/pkg/detect"
)

// Per-entity-type base weights on the 0-100 scale.
var piiWeights = map[string]float64{
	detect.TypeSSN:         95,
	detect.TypeCreditCard:  90,
	detect.TypePerson:      70,
	detect.TypeEmail:       60,
	detect.TypePhoneNumber: 55,
	detect.TypeDate:        30,
	detect.TypeLocation:    20,
	detect.TypeOrg:         15,
	detect.TypeUnknown:     50,
}

// defaultPIIWeight applies to entity types not in the table.
const defaultPIIWeight = 50

// Framework importance multipliers, ordered by regulatory exposure:
// healthcare, then financial, then privacy. Unlisted frameworks get 1.0.
var frameworkWeights = map[rules.Framework]float64{
	rules.FrameworkHIPAA:  1.5,
	rules.FrameworkPCIDSS: 1.4,
	rules.FrameworkGDPR:   1.3,
}

// Violation severity contributions on the 0-100 scale.
var severityScores = map[rules.Severity]float64{
	rules.SeverityLow:      20,
	rules.SeverityMedium:   40,
	rules.SeverityHigh:     70,
	rules.SeverityCritical: 95,
}

// Component combination weights: 0.4*pii + 0.3*injection + 0.3*compliance.
const (
	weightPII        = 0.4
	weightInjection  = 0.3
	weightCompliance = 0.3
)

// Clustering: an entity whose span lies within proximityWindow bytes of
// another high-weight entity gets its score raised by clusterMultiplier.
// A name next to an SSN is riskier than either alone.
const (
	defaultProximityWindow = 100
	clusterMultiplier      = 1.1
	highWeightThreshold    = 70
)

// Length exposure multipliers for the injection component. Longer prompts
// modestly increase effective risk.
const (
	lengthTierOne       = 500
	lengthTierTwo       = 1000
	lengthMultiplierOne = 1.2
	lengthMultiplierTwo = 1.4
)

// topRiskCount is how many individual findings an assessment surfaces.
const topRiskCount = 5

// Config contains scorer configuration.
type Config struct {
	// ProximityWindow is the maximum gap in bytes between two entity spans
	// for them to count as clustered. Default: 100.
	ProximityWindow int

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Scorer computes weighted risk assessments. It is stateless per call and
// safe for concurrent use.
type Scorer struct {
	proximityWindow int
	logger          *slog.Logger
}

// NewScorer creates a scorer. A nil config uses defaults.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = &Config{}
	}
	window := config.ProximityWindow
	if window <= 0 {
		window = defaultProximityWindow
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		proximityWindow: window,
		logger:          logger.With("component", "risk.scorer"),
	}
}

// Input carries one assessment's raw findings.
type Input struct {
	// Entities are the detected PII entities.
	Entities []detect.Entity

	// InjectionScore is the externally-produced injection likelihood in
	// [0, 1].
	InjectionScore float64

	// TextLength is the length of the analyzed text in bytes, used for the
	// injection exposure multiplier. Zero disables the multiplier.
	TextLength int

	// Violations are the compliance violations from evaluation.
	Violations []engine.Violation
}

// Score produces the overall assessment. Empty input is valid and yields a
// zero score at level low with no top risks.
func (s *Scorer) Score(in Input) *Assessment {
	piiFindings := s.scoreEntities(in.Entities)
	violationFindings := s.scoreViolations(in.Violations)

	piiScore := maxValue(piiFindings)
	complianceScore := maxValue(violationFindings)
	injectionScore := s.scoreInjection(in.InjectionScore, in.TextLength)

	overall := weightPII*piiScore + weightInjection*injectionScore + weightCompliance*complianceScore
	overall = clamp(overall)

	// Top risks rank the individual PII entities and violations, not the
	// three aggregate components.
	ranked := make([]Score, 0, len(piiFindings)+len(violationFindings))
	ranked = append(ranked, piiFindings...)
	ranked = append(ranked, violationFindings...)
	for i := range ranked {
		ranked[i].inputIndex = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		if ranked[i].severityRank != ranked[j].severityRank {
			return ranked[i].severityRank > ranked[j].severityRank
		}
		return ranked[i].inputIndex < ranked[j].inputIndex
	})
	if len(ranked) > topRiskCount {
		ranked = ranked[:topRiskCount]
	}

	criticalCount := 0
	for _, f := range piiFindings {
		if f.Level == LevelCritical {
			criticalCount++
		}
	}
	for _, f := range violationFindings {
		if f.Level == LevelCritical {
			criticalCount++
		}
	}

	assessment := &Assessment{
		OverallScore:    overall,
		OverallLevel:    LevelForScore(overall),
		PIIScore:        piiScore,
		InjectionScore:  injectionScore,
		ComplianceScore: complianceScore,
		TopRisks:        ranked,
		TotalEntities:   len(in.Entities),
		CriticalCount:   criticalCount,
	}
	assessment.Recommendations = recommend(assessment, piiFindings, violationFindings)

	s.logger.Debug("risk assessment computed",
		"overall_score", assessment.OverallScore,
		"overall_level", assessment.OverallLevel,
		"pii", piiScore,
		"injection", injectionScore,
		"compliance", complianceScore,
		"entities", len(in.Entities),
		"violations", len(in.Violations),
	)

	return assessment
}

// scoreEntities scores each entity as weight * confidence * cluster
// multiplier, capped at 100.
func (s *Scorer) scoreEntities(entities []detect.Entity) []Score {
	if len(entities) == 0 {
		return nil
	}

	findings := make([]Score, 0, len(entities))
	for i, entity := range entities {
		weight := piiWeight(entity.Type)
		value := weight * entity.Confidence
		if s.isClustered(i, entities) {
			value *= clusterMultiplier
		}
		value = clamp(value)
		level := LevelForScore(value)
		findings = append(findings, Score{
			Component:    ComponentPII,
			Detail:       entity.Type,
			Value:        value,
			Level:        level,
			severityRank: level.Rank(),
		})
	}
	return findings
}

// isClustered reports whether entity i lies within the proximity window of
// another entity whose base weight is high. Proximity is measured between
// span edges; overlapping spans have distance zero.
func (s *Scorer) isClustered(i int, entities []detect.Entity) bool {
	self := entities[i]
	for j, other := range entities {
		if j == i {
			continue
		}
		if piiWeight(other.Type) < highWeightThreshold {
			continue
		}
		if spanGap(self, other) <= s.proximityWindow {
			return true
		}
	}
	return false
}

// scoreViolations scores each violation as severity weight * framework
// multiplier, capped at 100.
func (s *Scorer) scoreViolations(violations []engine.Violation) []Score {
	if len(violations) == 0 {
		return nil
	}

	findings := make([]Score, 0, len(violations))
	for _, v := range violations {
		base, ok := severityScores[v.Severity]
		if !ok {
			base = 50
		}
		multiplier, ok := frameworkWeights[v.Framework]
		if !ok {
			multiplier = 1.0
		}
		value := clamp(base * multiplier)
		findings = append(findings, Score{
			Component:    ComponentCompliance,
			Detail:       v.Framework.String(),
			Value:        value,
			Level:        LevelForScore(value),
			severityRank: v.Severity.Rank(),
		})
	}
	return findings
}

// scoreInjection scales the external [0,1] likelihood to 0-100, amplified by
// a capped length exposure multiplier.
func (s *Scorer) scoreInjection(likelihood float64, textLength int) float64 {
	if likelihood <= 0 {
		return 0
	}
	if likelihood > 1 {
		likelihood = 1
	}

	multiplier := 1.0
	switch {
	case textLength > lengthTierTwo:
		multiplier = lengthMultiplierTwo
	case textLength > lengthTierOne:
		multiplier = lengthMultiplierOne
	}

	return clamp(likelihood * 100 * multiplier)
}

// piiWeight returns the base weight for an entity type.
func piiWeight(entityType string) float64 {
	if w, ok := piiWeights[entityType]; ok {
		return w
	}
	return defaultPIIWeight
}

// spanGap returns the distance in bytes between two spans, zero if they
// overlap or touch.
func spanGap(a, b detect.Entity) int {
	if a.Start > b.End {
		return a.Start - b.End
	}
	if b.Start > a.End {
		return b.Start - a.End
	}
	return 0
}

// maxValue returns the largest finding value, zero for no findings. The
// component score is a maximum, not a sum, so many low-risk findings cannot
// inflate it past the worst single finding.
func maxValue(findings []Score) float64 {
	max := 0.0
	for _, f := range findings {
		if f.Value > max {
			max = f.Value
		}
	}
	return max
}

// clamp bounds a score to [0, 100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
