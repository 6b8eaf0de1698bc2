package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sentinel-hq/ceres/pkg/audit"
	"sentinel-hq/ceres/pkg/audit/export"
	"sentinel-hq/ceres/pkg/audit/retention"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the audit trail",
}

var auditListFlags struct {
	limit  int
	format string
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit records",
	Long: `List recent audit records, newest first.

Records store hashes and counts only; the analyzed text is never persisted.

Examples:
  ceres audit list --limit 20
  ceres audit list --format json`,
	RunE: runAuditList,
}

var auditExportFlags struct {
	format string
	output string
	limit  int
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit records for offline analysis",
	Long: `Export audit records to CSV or JSON, newest first.

Examples:
  ceres audit export --format csv --output audit.csv
  ceres audit export --format json --limit 1000`,
	RunE: runAuditExport,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy now",
	Long: `Delete audit records outside the configured retention policy.

Age-based pruning runs first (audit.retention.days), then count-based
pruning (audit.retention.max_records).`,
	RunE: runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditExportCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditListCmd.Flags().IntVarP(&auditListFlags.limit, "limit", "n", 50, "maximum records to list")
	auditListCmd.Flags().StringVar(&auditListFlags.format, "format", "text", "output format: text, json")

	auditExportCmd.Flags().StringVar(&auditExportFlags.format, "format", "csv", "export format: csv, json")
	auditExportCmd.Flags().StringVarP(&auditExportFlags.output, "output", "o", "", "output file (default stdout)")
	auditExportCmd.Flags().IntVarP(&auditExportFlags.limit, "limit", "n", 0, "maximum records to export (0 for all)")
}

// auditRecordJSON is the list command's output row.
type auditRecordJSON struct {
	ID             string   `json:"id"`
	CreatedAt      string   `json:"created_at"`
	TextSHA256     string   `json:"text_sha256"`
	TextLength     int      `json:"text_length"`
	Frameworks     []string `json:"frameworks"`
	Compliant      bool     `json:"compliant"`
	ViolationCount int      `json:"violation_count"`
	MaxSeverity    string   `json:"max_severity,omitempty"`
	OverallScore   float64  `json:"overall_score"`
	OverallLevel   string   `json:"overall_level"`
	RedactionCount int      `json:"redaction_count"`
}

func runAuditList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	backend, err := openAuditStorage(&cfg.Audit)
	if err != nil {
		return err
	}
	defer backend.Close()

	records, err := backend.List(cmd.Context(), auditListFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if auditListFlags.format == "json" {
		rows := make([]auditRecordJSON, 0, len(records))
		for _, record := range records {
			rows = append(rows, toAuditRecordJSON(record))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "no audit records")
		return nil
	}
	for _, record := range records {
		status := "compliant"
		if !record.Compliant {
			status = "non-compliant"
		}
		fmt.Fprintf(out, "%s  %s  %-13s  violations=%d  risk=%.1f/%s\n",
			record.CreatedAt.Format(time.RFC3339),
			record.ID,
			status,
			record.ViolationCount,
			record.OverallScore,
			record.OverallLevel,
		)
	}
	return nil
}

func runAuditExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	exporter, err := export.NewExporter(auditExportFlags.format)
	if err != nil {
		return err
	}

	backend, err := openAuditStorage(&cfg.Audit)
	if err != nil {
		return err
	}
	defer backend.Close()

	records, err := backend.List(cmd.Context(), auditExportFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if auditExportFlags.output != "" {
		file, err := os.Create(auditExportFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", auditExportFlags.output, err)
		}
		defer file.Close()
		out = file
	}

	return exporter.Export(cmd.Context(), records, out)
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	backend, err := openAuditStorage(&cfg.Audit)
	if err != nil {
		return err
	}
	defer backend.Close()

	pruner := retention.NewPruner(backend, &retention.Config{
		RetentionDays: cfg.Audit.Retention.Days,
		MaxRecords:    cfg.Audit.Retention.MaxRecords,
	})

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d audit records\n", deleted)
	return nil
}

// toAuditRecordJSON converts a stored record to the output row.
func toAuditRecordJSON(record *audit.Record) auditRecordJSON {
	row := auditRecordJSON{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
		TextSHA256:     record.TextSHA256,
		TextLength:     record.TextLength,
		Compliant:      record.Compliant,
		ViolationCount: record.ViolationCount,
		MaxSeverity:    record.MaxSeverity.String(),
		OverallScore:   record.OverallScore,
		OverallLevel:   record.OverallLevel.String(),
		RedactionCount: record.RedactionCount,
	}
	for _, fw := range record.Frameworks {
		row.Frameworks = append(row.Frameworks, fw.String())
	}
	return row
}
