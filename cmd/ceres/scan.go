package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sentinel-hq/ceres/pkg/audit"
	"sentinel-hq/ceres/pkg/audit/storage"
	"sentinel-hq/ceres/pkg/cli"
	"sentinel-hq/ceres/pkg/compliance/engine"
	"sentinel-hq/ceres/pkg/compliance/redact"
	"sentinel-hq/ceres/pkg/compliance/risk"
	"sentinel-hq/ceres/pkg/compliance/rules"
	"sentinel-hq/ceres/pkg/config"
	"sentinel-hq/ceres/pkg/detect"
	"sentinel-hq/ceres/pkg/telemetry/metrics"
)

var scanFlags struct {
	text       string
	file       string
	frameworks []string
	redact     bool
	strategy   string
	format     string
	strict     bool
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan text for compliance violations",
	Long: `Scan text content for sensitive entities, injection attempts, and
compliance violations, then score the combined risk.

The scan runs the full inspection pipeline:
  - Entity detection (SSN, credit cards, emails, phone numbers, API keys)
  - Prompt injection detection
  - Rule evaluation against the selected frameworks
  - Composite risk scoring with recommendations
  - Optional redaction of detected entities

Examples:
  # Scan inline text against all loaded frameworks
  ceres scan --text "Patient SSN is 123-45-6789"

  # Scan a file against specific frameworks
  ceres scan --file note.txt --frameworks HIPAA,GDPR

  # Scan stdin and redact findings
  cat note.txt | ceres scan --redact --strategy full_mask

  # JSON output for pipelines
  ceres scan --file note.txt --format json`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanFlags.text, "text", "t", "", "text to scan")
	scanCmd.Flags().StringVarP(&scanFlags.file, "file", "f", "", "file to scan")
	scanCmd.Flags().StringSliceVar(&scanFlags.frameworks, "frameworks", nil, "frameworks to check (default: all loaded)")
	scanCmd.Flags().BoolVar(&scanFlags.redact, "redact", false, "redact detected entities in the output")
	scanCmd.Flags().StringVar(&scanFlags.strategy, "strategy", "", "redaction strategy: token, full_mask, partial, hash")
	scanCmd.Flags().StringVar(&scanFlags.format, "format", "text", "output format: text, json")
	scanCmd.Flags().BoolVar(&scanFlags.strict, "strict", false, "exit with status 2 when the input is non-compliant")
}

// scanReport is the scan command's output document.
type scanReport struct {
	Compliant  bool            `json:"compliant"`
	Frameworks []string        `json:"frameworks_checked"`
	Violations []violationJSON `json:"violations,omitempty"`
	Entities   []entityJSON    `json:"entities,omitempty"`
	Injection  *injectionJSON  `json:"injection,omitempty"`
	Risk       riskJSON        `json:"risk"`
	Redacted   string          `json:"redacted_text,omitempty"`
	Redactions []redactionJSON `json:"redactions,omitempty"`
	AuditID    string          `json:"audit_id,omitempty"`
}

type violationJSON struct {
	RuleID      string `json:"rule_id"`
	Framework   string `json:"framework"`
	RuleName    string `json:"rule_name"`
	Severity    string `json:"severity"`
	Action      string `json:"action"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

type entityJSON struct {
	Type       string  `json:"type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

type injectionJSON struct {
	Detected bool     `json:"detected"`
	Score    float64  `json:"score"`
	Patterns []string `json:"matched_patterns,omitempty"`
}

type riskJSON struct {
	OverallScore    float64   `json:"overall_score"`
	OverallLevel    string    `json:"overall_level"`
	PIIScore        float64   `json:"pii_score"`
	InjectionScore  float64   `json:"injection_score"`
	ComplianceScore float64   `json:"compliance_score"`
	TopRisks        []topRisk `json:"top_risks,omitempty"`
	Recommendations []string  `json:"recommendations"`
}

type topRisk struct {
	Component string  `json:"component"`
	Detail    string  `json:"detail"`
	Value     float64 `json:"value"`
	Level     string  `json:"level"`
}

type redactionJSON struct {
	Type        string `json:"type"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	text, err := readInput(scanFlags.text, scanFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	store, err := loadRules(cfg)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	frameworkNames := scanFlags.frameworks
	if len(frameworkNames) == 0 {
		frameworkNames = cfg.Engine.Frameworks
	}
	frameworks, err := parseFrameworks(frameworkNames)
	if err != nil {
		return err
	}

	blockSeverity, err := rules.ParseSeverity(cfg.Engine.BlockSeverity)
	if err != nil {
		return err
	}

	detector := detect.NewRegexDetector()
	injector := detect.NewInjectionDetector()
	eng := engine.New(store, &engine.Config{BlockSeverity: blockSeverity})
	scorer := risk.NewScorer(&risk.Config{ProximityWindow: cfg.Risk.ProximityWindow})
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Run the pipeline.
	entities := detector.Detect(text)
	injection := injector.Analyze(text)

	result, err := eng.Evaluate(text, entities, frameworks...)
	if err != nil {
		return err
	}

	assessment := scorer.Score(risk.Input{
		Entities:       entities,
		InjectionScore: injection.Score,
		TextLength:     len(text),
		Violations:     result.Violations,
	})

	collector.RecordEvaluation(result.Compliant, result.EvaluationTime, violationCounts(result))
	collector.RecordRiskScore(assessment.OverallScore, assessment.OverallLevel.String())

	report := buildScanReport(result, entities, injection, assessment)

	if scanFlags.redact {
		strategyName := scanFlags.strategy
		if strategyName == "" {
			strategyName = cfg.Redaction.Strategy
		}
		strategy, err := redact.ParseStrategy(strategyName, []byte(cfg.Redaction.HashKey))
		if err != nil {
			return err
		}
		redactor := redact.NewRedactor(nil)
		redacted, mapping := redactor.Redact(text, entities, strategy)
		report.Redacted = redacted
		for _, entry := range mapping {
			report.Redactions = append(report.Redactions, redactionJSON{
				Type:        entry.EntityType,
				Start:       entry.Start,
				End:         entry.End,
				Replacement: entry.Replacement,
			})
		}
		collector.RecordRedactions(strategy.Name(), len(mapping))
	}

	if cfg.Audit.Enabled {
		auditID, err := recordAudit(cmd.Context(), cfg, collector, audit.Entry{
			Text:           text,
			Frameworks:     result.FrameworksChecked,
			Result:         result,
			Assessment:     assessment,
			RedactionCount: len(report.Redactions),
		})
		if err != nil {
			return err
		}
		report.AuditID = auditID
	}

	if err := writeScanReport(cmd.OutOrStdout(), report, scanFlags.format); err != nil {
		return err
	}
	if scanFlags.strict && !report.Compliant {
		return cli.Exit(2, "input is non-compliant")
	}
	return nil
}

// recordAudit opens the configured audit backend, records one entry, and
// shuts the recorder down so the write is durable before the process exits.
func recordAudit(ctx context.Context, cfg *config.Config, collector *metrics.Collector, entry audit.Entry) (string, error) {
	backend, err := openAuditStorage(&cfg.Audit)
	if err != nil {
		return "", err
	}
	defer backend.Close()

	recorder := audit.NewRecorder(backend, &audit.Config{
		Enabled:      true,
		AsyncBuffer:  cfg.Audit.AsyncBuffer,
		WriteTimeout: cfg.Audit.WriteTimeout,
	}, collector.Audit())
	defer recorder.Close()

	return recorder.Record(ctx, entry)
}

// openAuditStorage builds the configured audit storage backend.
func openAuditStorage(cfg *config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return storage.NewSQLiteStoreWithConfig(storage.SQLiteConfig{
			Path:        cfg.SQLitePath,
			BusyTimeout: cfg.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Backend)
	}
}

// violationCounts groups violation counts by framework and severity for
// metrics recording.
func violationCounts(result *engine.Result) map[string]map[string]int {
	if len(result.Violations) == 0 {
		return nil
	}
	counts := make(map[string]map[string]int)
	for _, v := range result.Violations {
		fw := v.Framework.String()
		if counts[fw] == nil {
			counts[fw] = make(map[string]int)
		}
		counts[fw][v.Severity.String()]++
	}
	return counts
}

// buildScanReport converts pipeline outputs into the output document.
func buildScanReport(result *engine.Result, entities []detect.Entity, injection detect.InjectionResult, assessment *risk.Assessment) *scanReport {
	report := &scanReport{
		Compliant: result.Compliant,
		Risk: riskJSON{
			OverallScore:    assessment.OverallScore,
			OverallLevel:    assessment.OverallLevel.String(),
			PIIScore:        assessment.PIIScore,
			InjectionScore:  assessment.InjectionScore,
			ComplianceScore: assessment.ComplianceScore,
			Recommendations: assessment.Recommendations,
		},
	}
	for _, fw := range result.FrameworksChecked {
		report.Frameworks = append(report.Frameworks, fw.String())
	}
	for _, v := range result.Violations {
		report.Violations = append(report.Violations, violationJSON{
			RuleID:      v.RuleID,
			Framework:   v.Framework.String(),
			RuleName:    v.RuleName,
			Severity:    v.Severity.String(),
			Action:      v.Action.String(),
			Message:     v.Message,
			Remediation: v.Remediation,
		})
	}
	for _, e := range entities {
		report.Entities = append(report.Entities, entityJSON{
			Type:       e.Type,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Confidence,
		})
	}
	if injection.Detected {
		report.Injection = &injectionJSON{
			Detected: true,
			Score:    injection.Score,
			Patterns: injection.MatchedPatterns,
		}
	}
	for _, r := range assessment.TopRisks {
		report.Risk.TopRisks = append(report.Risk.TopRisks, topRisk{
			Component: string(r.Component),
			Detail:    r.Detail,
			Value:     r.Value,
			Level:     r.Level.String(),
		})
	}
	return report
}

// writeScanReport renders the report in the requested format.
func writeScanReport(w io.Writer, report *scanReport, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	status := "COMPLIANT"
	if !report.Compliant {
		status = "NON-COMPLIANT"
	}
	fmt.Fprintf(w, "Status: %s\n", status)
	fmt.Fprintf(w, "Frameworks: %s\n", strings.Join(report.Frameworks, ", "))
	fmt.Fprintf(w, "Risk: %.1f (%s)\n", report.Risk.OverallScore, report.Risk.OverallLevel)

	if len(report.Violations) > 0 {
		fmt.Fprintf(w, "\nViolations (%d):\n", len(report.Violations))
		for _, v := range report.Violations {
			fmt.Fprintf(w, "  [%s/%s] %s: %s\n", v.Framework, v.Severity, v.RuleID, v.Message)
		}
	}
	if len(report.Entities) > 0 {
		fmt.Fprintf(w, "\nEntities (%d):\n", len(report.Entities))
		for _, e := range report.Entities {
			fmt.Fprintf(w, "  %s at %d-%d (confidence %.2f)\n", e.Type, e.Start, e.End, e.Confidence)
		}
	}
	if report.Injection != nil {
		fmt.Fprintf(w, "\nInjection detected (score %.2f): %s\n",
			report.Injection.Score, strings.Join(report.Injection.Patterns, "; "))
	}
	if len(report.Risk.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, rec := range report.Risk.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	if report.Redacted != "" {
		fmt.Fprintf(w, "\nRedacted text:\n%s\n", report.Redacted)
	}
	if report.AuditID != "" {
		fmt.Fprintf(w, "\nAudit record: %s\n", report.AuditID)
	}
	return nil
}

// readInput resolves the scan input from a flag, a file, or stdin.
func readInput(text, file string, stdin io.Reader) (string, error) {
	if text != "" && file != "" {
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	}
	if text != "" {
		return text, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file %q: %w", file, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: use --text, --file, or pipe content to stdin")
	}
	return string(data), nil
}
