package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"sentinel-hq/ceres/pkg/audit"
)

// CSVExporter writes audit records as CSV rows, one record per line.
// Frameworks are joined into a single comma-free field (semicolon separated)
// so the rows stay parseable by naive CSV consumers.
type CSVExporter struct {
	// IncludeHeader writes a header row with column names first.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes the records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return &audit.ExportError{Format: "csv", Cause: err}
		}
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return &audit.ExportError{Format: "csv", Records: i, Cause: err}
		}
		if err := writer.Write(recordRow(record)); err != nil {
			return &audit.ExportError{Format: "csv", Records: i, Cause: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &audit.ExportError{Format: "csv", Records: len(records), Cause: err}
	}
	return nil
}

func headerRow() []string {
	return []string{
		"id", "created_at", "text_sha256", "text_length", "frameworks",
		"compliant", "violation_count", "max_severity",
		"overall_score", "overall_level", "redaction_count",
	}
}

func recordRow(record *audit.Record) []string {
	frameworks := make([]byte, 0, 32)
	for i, fw := range record.Frameworks {
		if i > 0 {
			frameworks = append(frameworks, ';')
		}
		frameworks = append(frameworks, fw.String()...)
	}

	return []string{
		record.ID,
		record.CreatedAt.Format(time.RFC3339),
		record.TextSHA256,
		strconv.Itoa(record.TextLength),
		string(frameworks),
		strconv.FormatBool(record.Compliant),
		strconv.Itoa(record.ViolationCount),
		record.MaxSeverity.String(),
		strconv.FormatFloat(record.OverallScore, 'f', 2, 64),
		record.OverallLevel.String(),
		strconv.Itoa(record.RedactionCount),
	}
}
