package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"sentinel-hq/ceres/pkg/audit"
)

// Exporter writes audit records to an output stream in one format.
type Exporter interface {
	// Export writes the records to w. Records are written in the order
	// given; callers that want newest-first pass them that way.
	Export(ctx context.Context, records []*audit.Record, w io.Writer) error
}

// NewExporter returns the exporter for the named format ("csv" or "json").
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "csv":
		return NewCSVExporter(true), nil
	case "json":
		return NewJSONExporter(true), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (expected csv or json)", format)
	}
}
