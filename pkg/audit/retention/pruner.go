package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sentinel-hq/ceres/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain audit records.
	// 0 means keep records forever (no age-based pruning).
	RetentionDays int

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string

	// Logger receives pruner diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention policy on the audit trail.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewPruner creates a retention pruner over the given storage.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pruner{
		storage: storage,
		config:  config,
		logger:  logger.With("component", "audit.retention"),
		now:     time.Now,
	}
}

// Prune deletes audit records older than the retention period or exceeding
// the max record count.
//
// Pruning happens in two phases: age-based first, then count-based. Both can
// apply in the same run. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteBefore(ctx, cutoff)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		if deleted > 0 {
			p.logger.Info("pruned audit records by age",
				"deleted_count", deleted,
				"retention_days", p.config.RetentionDays,
			)
		}
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.storage.DeleteOldest(ctx, p.config.MaxRecords)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		if deleted > 0 {
			p.logger.Info("pruned audit records by count",
				"deleted_count", deleted,
				"max_records", p.config.MaxRecords,
			)
		}
	}

	if totalDeleted == 0 {
		p.logger.Debug("no audit records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return totalDeleted, nil
}
