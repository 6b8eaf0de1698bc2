package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validRuleYAML = `framework: HIPAA
rules:
  - id: hipaa-test-ssn
    name: SSN in medical context
    description: Detects SSNs near medical terms
    severity: critical
    action: block
    entity_types:
      - ssn
    keywords:
      - medical
    remediation: Remove the SSN
`

func TestParseRulesValid(t *testing.T) {
	fw, loaded, err := ParseRules([]byte(validRuleYAML), "test.yaml")
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if fw != FrameworkHIPAA {
		t.Errorf("framework = %q, want HIPAA", fw)
	}
	if len(loaded) != 1 {
		t.Fatalf("ParseRules() returned %d rules, want 1", len(loaded))
	}

	rule := loaded[0]
	if rule.ID != "hipaa-test-ssn" {
		t.Errorf("ID = %q", rule.ID)
	}
	if rule.Framework != FrameworkHIPAA {
		t.Errorf("Framework = %q, want HIPAA", rule.Framework)
	}
	if rule.Severity != SeverityCritical {
		t.Errorf("Severity = %q, want critical", rule.Severity)
	}
	if rule.Action != ActionBlock {
		t.Errorf("Action = %q, want block", rule.Action)
	}
	// Entity types are normalized to uppercase.
	if len(rule.EntityTypes) != 1 || rule.EntityTypes[0] != "SSN" {
		t.Errorf("EntityTypes = %v, want [SSN]", rule.EntityTypes)
	}
	if rule.Remediation != "Remove the SSN" {
		t.Errorf("Remediation = %q", rule.Remediation)
	}
}

func TestParseRulesDefaultRemediation(t *testing.T) {
	yaml := `framework: GDPR
rules:
  - id: gdpr-test
    name: Email exposure
    severity: medium
    action: flag
    entity_types: [EMAIL]
`
	_, loaded, err := ParseRules([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if loaded[0].Remediation == "" {
		t.Error("expected a generated remediation for a rule without one")
	}
}

func TestParseRulesZeroRules(t *testing.T) {
	fw, loaded, err := ParseRules([]byte("framework: CCPA\nrules: []\n"), "test.yaml")
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if fw != FrameworkCCPA {
		t.Errorf("framework = %q, want CCPA", fw)
	}
	if len(loaded) != 0 {
		t.Errorf("ParseRules() returned %d rules, want 0", len(loaded))
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
	}{
		{
			name:      "empty document",
			yaml:      "",
			wantField: "framework",
		},
		{
			name:      "missing framework",
			yaml:      "rules:\n  - id: x\n    name: X\n    severity: low\n    action: flag\n",
			wantField: "framework",
		},
		{
			name:      "unknown framework",
			yaml:      "framework: FEDRAMP\nrules: []\n",
			wantField: "framework",
		},
		{
			name:      "unknown top-level key",
			yaml:      "framework: HIPAA\nversion: 2\nrules: []\n",
			wantField: "",
		},
		{
			name:      "unknown rule key",
			yaml:      "framework: HIPAA\nrules:\n  - id: x\n    name: X\n    severity: low\n    action: flag\n    priority: 1\n",
			wantField: "",
		},
		{
			name:      "missing rule id",
			yaml:      "framework: HIPAA\nrules:\n  - name: X\n    severity: low\n    action: flag\n",
			wantField: "id",
		},
		{
			name:      "missing rule name",
			yaml:      "framework: HIPAA\nrules:\n  - id: x\n    severity: low\n    action: flag\n",
			wantField: "name",
		},
		{
			name:      "unknown severity",
			yaml:      "framework: HIPAA\nrules:\n  - id: x\n    name: X\n    severity: urgent\n    action: flag\n",
			wantField: "severity",
		},
		{
			name:      "unknown action",
			yaml:      "framework: HIPAA\nrules:\n  - id: x\n    name: X\n    severity: low\n    action: reject\n",
			wantField: "action",
		},
		{
			name:      "invalid regex",
			yaml:      "framework: HIPAA\nrules:\n  - id: x\n    name: X\n    severity: low\n    action: flag\n    pattern: '[unclosed'\n",
			wantField: "pattern",
		},
		{
			name: "duplicate rule id",
			yaml: "framework: HIPAA\nrules:\n" +
				"  - {id: x, name: A, severity: low, action: flag}\n" +
				"  - {id: x, name: B, severity: low, action: flag}\n",
			wantField: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRules([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("ParseRules() succeeded, want error")
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T, want *ValidationError: %v", err, err)
			}
			if tt.wantField != "" && vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestParseRulesInvalidUTF8(t *testing.T) {
	_, _, err := ParseRules([]byte{0xff, 0xfe, 'f'}, "test.yaml")
	var lErr *LoadError
	if !errors.As(err, &lErr) {
		t.Fatalf("error type = %T, want *LoadError: %v", err, err)
	}
}

func TestLoadDirPartial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-good.yaml", validRuleYAML)
	writeFile(t, dir, "b-bad.yaml", "framework: NOPE\nrules: []\n")

	store, err := LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() succeeded, want partial-load error")
	}
	var errList *ErrorList
	if !errors.As(err, &errList) {
		t.Fatalf("error type = %T, want *ErrorList: %v", err, err)
	}
	if store == nil {
		t.Fatal("LoadDir() returned nil store alongside ErrorList")
	}
	if !store.HasFramework(FrameworkHIPAA) {
		t.Error("good framework missing from partial store")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestLoadDirAllBad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "framework: NOPE\nrules: []\n")

	store, err := LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() succeeded, want error")
	}
	if store != nil {
		t.Errorf("store = %v, want nil when nothing loaded", store)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	if !errors.Is(err, ErrNoRuleFiles) {
		t.Errorf("error = %v, want ErrNoRuleFiles", err)
	}
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	var lErr *LoadError
	if !errors.As(err, &lErr) {
		t.Fatalf("error type = %T, want *LoadError", err)
	}
}

func TestLoadDirOrderStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-gdpr.yaml", "framework: GDPR\nrules:\n  - {id: g1, name: G, severity: low, action: flag, keywords: [x]}\n")
	writeFile(t, dir, "a-hipaa.yaml", validRuleYAML)

	store, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}

	frameworks := store.Frameworks()
	if len(frameworks) != 2 || frameworks[0] != FrameworkHIPAA || frameworks[1] != FrameworkGDPR {
		t.Errorf("Frameworks() = %v, want [HIPAA GDPR] (sorted file-name order)", frameworks)
	}
}

func TestLoadDirZeroRuleFramework(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a-ccpa.yaml", "framework: CCPA\nrules: []\n")
	writeFile(t, dir, "b-gdpr.yaml", "framework: GDPR\nrules:\n  - {id: g1, name: G, severity: low, action: flag, keywords: [x]}\n")

	store, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}

	// A framework whose file declares no rules is loaded, not unknown.
	if !store.HasFramework(FrameworkCCPA) {
		t.Error("HasFramework(CCPA) = false for a loaded zero-rule framework")
	}
	ruleSet, err := store.RulesFor(FrameworkCCPA)
	if err != nil {
		t.Fatalf("RulesFor(CCPA) error: %v", err)
	}
	if len(ruleSet) != 0 {
		t.Errorf("RulesFor(CCPA) returned %d rules, want 0", len(ruleSet))
	}

	frameworks := store.Frameworks()
	if len(frameworks) != 2 || frameworks[0] != FrameworkCCPA || frameworks[1] != FrameworkGDPR {
		t.Errorf("Frameworks() = %v, want [CCPA GDPR]", frameworks)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestLoadDefault(t *testing.T) {
	store, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if store.Len() == 0 {
		t.Fatal("built-in rule set is empty")
	}
	for _, fw := range []Framework{FrameworkHIPAA, FrameworkGDPR, FrameworkPCIDSS, FrameworkSecurity} {
		if !store.HasFramework(fw) {
			t.Errorf("built-in rule set missing framework %s", fw)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
