package risk

import (
	"math"
	"testing"

	"sentinel-hq/ceres/pkg/compliance/engine"
	"sentinel-hq/ceres/pkg/compliance/rules"
	"sentinel-hq/ceres/pkg/detect"
)

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestScoreEmptyInput(t *testing.T) {
	a := NewScorer(nil).Score(Input{})

	if a.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", a.OverallScore)
	}
	if a.OverallLevel != LevelLow {
		t.Errorf("OverallLevel = %v, want low", a.OverallLevel)
	}
	if len(a.TopRisks) != 0 {
		t.Errorf("TopRisks = %v, want empty", a.TopRisks)
	}
	if len(a.Recommendations) != 1 || a.Recommendations[0] != RecommendMonitor {
		t.Errorf("Recommendations = %v, want [monitor]", a.Recommendations)
	}
}

func TestScoreSingleEntity(t *testing.T) {
	a := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypeSSN, Value: "123-45-6789", Start: 0, End: 11, Confidence: 0.95},
		},
	})

	// 95 * 0.95, no cluster partner.
	if !approx(a.PIIScore, 90.25) {
		t.Errorf("PIIScore = %v, want 90.25", a.PIIScore)
	}
	// 0.4 * 90.25 with zero injection and compliance components.
	if !approx(a.OverallScore, 36.1) {
		t.Errorf("OverallScore = %v, want 36.1", a.OverallScore)
	}
	if a.OverallLevel != LevelMedium {
		t.Errorf("OverallLevel = %v, want medium", a.OverallLevel)
	}
	if a.TotalEntities != 1 {
		t.Errorf("TotalEntities = %d, want 1", a.TotalEntities)
	}
}

func TestScoreClusterMultiplier(t *testing.T) {
	// A person name within the proximity window of an SSN: both findings get
	// the cluster multiplier (each has a high-weight partner).
	a := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypePerson, Value: "John Doe", Start: 0, End: 8, Confidence: 0.9},
			{Type: detect.TypeSSN, Value: "123-45-6789", Start: 20, End: 31, Confidence: 0.95},
		},
	})

	// SSN: 95 * 0.95 * 1.1 = 99.275; person: 70 * 0.9 * 1.1 = 69.3.
	if !approx(a.PIIScore, 99.275) {
		t.Errorf("PIIScore = %v, want 99.275", a.PIIScore)
	}

	// Beyond the window, no multiplier applies.
	far := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypePerson, Value: "John Doe", Start: 0, End: 8, Confidence: 0.9},
			{Type: detect.TypeSSN, Value: "123-45-6789", Start: 500, End: 511, Confidence: 0.95},
		},
	})
	if !approx(far.PIIScore, 90.25) {
		t.Errorf("PIIScore = %v, want 90.25 without clustering", far.PIIScore)
	}
}

func TestScoreLowWeightNeighborDoesNotCluster(t *testing.T) {
	// An email next to another email: neither partner reaches the high-weight
	// threshold, so no multiplier.
	a := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypeEmail, Value: "a@b.co", Start: 0, End: 6, Confidence: 1.0},
			{Type: detect.TypeEmail, Value: "c@d.co", Start: 10, End: 16, Confidence: 1.0},
		},
	})
	if !approx(a.PIIScore, 60) {
		t.Errorf("PIIScore = %v, want 60", a.PIIScore)
	}
}

func TestScorePIIComponentIsMaxNotSum(t *testing.T) {
	a := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypeOrg, Value: "Acme", Start: 0, End: 4, Confidence: 1.0},
			{Type: detect.TypeOrg, Value: "Globex", Start: 100, End: 106, Confidence: 1.0},
			{Type: detect.TypeOrg, Value: "Initech", Start: 300, End: 307, Confidence: 1.0},
		},
	})
	// Many low-weight findings cannot exceed the worst single finding.
	if !approx(a.PIIScore, 15) {
		t.Errorf("PIIScore = %v, want 15", a.PIIScore)
	}
}

func TestScoreViolations(t *testing.T) {
	tests := []struct {
		name      string
		framework rules.Framework
		severity  rules.Severity
		want      float64
	}{
		{"hipaa critical clamps", rules.FrameworkHIPAA, rules.SeverityCritical, 100}, // 95 * 1.5
		{"hipaa medium", rules.FrameworkHIPAA, rules.SeverityMedium, 60},             // 40 * 1.5
		{"pci high", rules.FrameworkPCIDSS, rules.SeverityHigh, 98},                  // 70 * 1.4
		{"gdpr low", rules.FrameworkGDPR, rules.SeverityLow, 26},                     // 20 * 1.3
		{"unweighted framework", rules.FrameworkSOC2, rules.SeverityHigh, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewScorer(nil).Score(Input{
				Violations: []engine.Violation{
					{RuleID: "r", Framework: tt.framework, Severity: tt.severity},
				},
			})
			if !approx(a.ComplianceScore, tt.want) {
				t.Errorf("ComplianceScore = %v, want %v", a.ComplianceScore, tt.want)
			}
		})
	}
}

func TestScoreInjectionLengthMultiplier(t *testing.T) {
	tests := []struct {
		name       string
		likelihood float64
		textLength int
		want       float64
	}{
		{"zero likelihood", 0, 2000, 0},
		{"short text", 0.75, 100, 75},
		{"medium text", 0.75, 600, 90}, // 75 * 1.2
		{"long text", 0.75, 1500, 100}, // 75 * 1.4 clamped
		{"boundary tier one", 0.5, 500, 50},
		{"just past tier one", 0.5, 501, 60},
		{"boundary tier two", 0.5, 1000, 60},
		{"just past tier two", 0.5, 1001, 70},
		{"likelihood above one clamps", 1.5, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewScorer(nil).Score(Input{
				InjectionScore: tt.likelihood,
				TextLength:     tt.textLength,
			})
			if !approx(a.InjectionScore, tt.want) {
				t.Errorf("InjectionScore = %v, want %v", a.InjectionScore, tt.want)
			}
		})
	}
}

func TestScoreOverallWeights(t *testing.T) {
	a := NewScorer(nil).Score(Input{
		Entities: []detect.Entity{
			{Type: detect.TypeEmail, Value: "a@b.co", Start: 0, End: 6, Confidence: 1.0},
		},
		InjectionScore: 0.75,
		Violations: []engine.Violation{
			{RuleID: "r", Framework: rules.FrameworkSOC2, Severity: rules.SeverityMedium},
		},
	})

	// 0.4*60 + 0.3*75 + 0.3*40 = 24 + 22.5 + 12 = 58.5.
	if !approx(a.OverallScore, 58.5) {
		t.Errorf("OverallScore = %v, want 58.5", a.OverallScore)
	}
	if a.OverallLevel != LevelMedium {
		t.Errorf("OverallLevel = %v, want medium", a.OverallLevel)
	}
}

func TestScoreTopRisks(t *testing.T) {
	entities := []detect.Entity{
		{Type: detect.TypeOrg, Value: "Acme", Start: 0, End: 4, Confidence: 1.0},
		{Type: detect.TypeSSN, Value: "123-45-6789", Start: 200, End: 211, Confidence: 0.95},
		{Type: detect.TypeEmail, Value: "a@b.co", Start: 400, End: 406, Confidence: 1.0},
		{Type: detect.TypeDate, Value: "2024-01-01", Start: 600, End: 610, Confidence: 1.0},
		{Type: detect.TypeLocation, Value: "Springfield", Start: 800, End: 811, Confidence: 1.0},
	}
	violations := []engine.Violation{
		{RuleID: "r1", Framework: rules.FrameworkHIPAA, Severity: rules.SeverityCritical},
	}

	a := NewScorer(nil).Score(Input{Entities: entities, Violations: violations})

	if len(a.TopRisks) != 5 {
		t.Fatalf("TopRisks has %d entries, want 5", len(a.TopRisks))
	}
	// Highest first: HIPAA critical (100), then SSN (90.25), then email (60).
	if a.TopRisks[0].Component != ComponentCompliance || a.TopRisks[0].Detail != "HIPAA" {
		t.Errorf("TopRisks[0] = %+v, want HIPAA compliance finding", a.TopRisks[0])
	}
	if a.TopRisks[1].Detail != detect.TypeSSN {
		t.Errorf("TopRisks[1] = %+v, want SSN", a.TopRisks[1])
	}
	if a.TopRisks[2].Detail != detect.TypeEmail {
		t.Errorf("TopRisks[2] = %+v, want EMAIL", a.TopRisks[2])
	}
	for i := 1; i < len(a.TopRisks); i++ {
		if a.TopRisks[i].Value > a.TopRisks[i-1].Value {
			t.Errorf("TopRisks not descending at %d: %+v", i, a.TopRisks)
		}
	}

	if a.CriticalCount != 2 {
		t.Errorf("CriticalCount = %d, want 2 (SSN finding and HIPAA violation)", a.CriticalCount)
	}
}

func TestScoreRecommendations(t *testing.T) {
	t.Run("compliance and pii", func(t *testing.T) {
		a := NewScorer(nil).Score(Input{
			Entities: []detect.Entity{
				{Type: detect.TypeSSN, Value: "123-45-6789", Start: 0, End: 11, Confidence: 0.95},
			},
			Violations: []engine.Violation{
				{RuleID: "r", Framework: rules.FrameworkHIPAA, Severity: rules.SeverityCritical},
			},
		})
		want := []string{RecommendBlock, RecommendRedact}
		if len(a.Recommendations) != 2 || a.Recommendations[0] != want[0] || a.Recommendations[1] != want[1] {
			t.Errorf("Recommendations = %v, want %v", a.Recommendations, want)
		}
	})

	t.Run("injection dominating", func(t *testing.T) {
		a := NewScorer(nil).Score(Input{InjectionScore: 0.95, TextLength: 1500})
		// Injection 100, overall 30 -> medium: the overall level gate keeps
		// the hardening recommendation out.
		if len(a.Recommendations) != 1 || a.Recommendations[0] != RecommendMonitor {
			t.Errorf("Recommendations = %v, want [monitor]", a.Recommendations)
		}
	})
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelLow},
		{29.9, LevelLow},
		{30, LevelMedium},
		{59.9, LevelMedium},
		{60, LevelHigh},
		{84.9, LevelHigh},
		{85, LevelCritical},
		{100, LevelCritical},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
