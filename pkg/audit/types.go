package audit

import (
	"context"
	"time"

	"sentinel-hq/ceres/pkg/compliance/risk"
	"sentinel-hq/ceres/pkg/compliance/rules"
)

// Record is one persisted evaluation outcome. It stores a hash of the
// analyzed text, never the text or the detected values: the audit trail must
// not become a second copy of the sensitive data it exists to police.
type Record struct {
	// ID is a UUID assigned by the recorder.
	ID string

	// CreatedAt is when the evaluation completed (UTC).
	CreatedAt time.Time

	// TextSHA256 is the hex SHA-256 of the analyzed text.
	TextSHA256 string

	// TextLength is the analyzed text length in bytes.
	TextLength int

	// Frameworks lists the frameworks checked.
	Frameworks []rules.Framework

	// Compliant is the evaluation outcome.
	Compliant bool

	// ViolationCount is the number of violations found.
	ViolationCount int

	// MaxSeverity is the highest violation severity, empty when there were
	// no violations.
	MaxSeverity rules.Severity

	// OverallScore and OverallLevel summarize the risk assessment.
	OverallScore float64
	OverallLevel risk.Level

	// RedactionCount is the number of substitutions applied, zero when no
	// redaction was requested.
	RedactionCount int
}

// Storage persists audit records. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Save persists a record.
	Save(ctx context.Context, record *Record) error

	// Get returns the record with the given ID, or ErrRecordNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A non-positive limit
	// returns all records.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records created before the cutoff and returns
	// how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOldest removes the oldest records until at most keep remain,
	// returning how many were removed.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Close releases backend resources.
	Close() error
}
