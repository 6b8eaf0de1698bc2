package export

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"sentinel-hq/ceres/pkg/audit"
	"sentinel-hq/ceres/pkg/compliance/rules"
)

// JSONExporter writes audit records as a JSON array.
type JSONExporter struct {
	// Pretty enables indented output.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// jsonRecord is the wire shape of an exported record.
type jsonRecord struct {
	ID             string   `json:"id"`
	CreatedAt      string   `json:"created_at"`
	TextSHA256     string   `json:"text_sha256"`
	TextLength     int      `json:"text_length"`
	Frameworks     []string `json:"frameworks,omitempty"`
	Compliant      bool     `json:"compliant"`
	ViolationCount int      `json:"violation_count"`
	MaxSeverity    string   `json:"max_severity,omitempty"`
	OverallScore   float64  `json:"overall_score"`
	OverallLevel   string   `json:"overall_level"`
	RedactionCount int      `json:"redaction_count"`
}

// Export writes the records to w as a JSON array. An empty record set
// produces an empty array, not null.
func (e *JSONExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return &audit.ExportError{Format: "json", Cause: err}
	}

	out := make([]jsonRecord, 0, len(records))
	for _, record := range records {
		out = append(out, toJSONRecord(record))
	}

	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(out); err != nil {
		return &audit.ExportError{Format: "json", Records: len(records), Cause: err}
	}
	return nil
}

func toJSONRecord(record *audit.Record) jsonRecord {
	return jsonRecord{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
		TextSHA256:     record.TextSHA256,
		TextLength:     record.TextLength,
		Frameworks:     frameworkNames(record.Frameworks),
		Compliant:      record.Compliant,
		ViolationCount: record.ViolationCount,
		MaxSeverity:    record.MaxSeverity.String(),
		OverallScore:   record.OverallScore,
		OverallLevel:   record.OverallLevel.String(),
		RedactionCount: record.RedactionCount,
	}
}

func frameworkNames(frameworks []rules.Framework) []string {
	if len(frameworks) == 0 {
		return nil
	}
	out := make([]string, len(frameworks))
	for i, fw := range frameworks {
		out[i] = fw.String()
	}
	return out
}
