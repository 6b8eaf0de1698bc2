package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sentinel-hq/ceres/pkg/audit"
	"sentinel-hq/ceres/pkg/audit/storage"
)

func seedStore(t *testing.T, now time.Time, agesInDays ...int) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	for i, age := range agesInDays {
		record := &audit.Record{
			ID:        fmt.Sprintf("r%d", i),
			CreatedAt: now.AddDate(0, 0, -age),
		}
		if err := store.Save(context.Background(), record); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestPruneByAge(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store := seedStore(t, now, 120, 91, 90, 10)

	pruner := NewPruner(store, &Config{RetentionDays: 90})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	// The record exactly at the cutoff survives.
	if _, err := store.Get(context.Background(), "r2"); err != nil {
		t.Errorf("record at the retention boundary was deleted: %v", err)
	}
}

func TestPruneByCount(t *testing.T) {
	now := time.Now().UTC()
	store := seedStore(t, now, 5, 4, 3, 2, 1)

	pruner := NewPruner(store, &Config{MaxRecords: 2})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestPruneBothPhases(t *testing.T) {
	now := time.Now().UTC()
	// Two expired records, then three in-window records capped at two.
	store := seedStore(t, now, 100, 95, 30, 20, 10)

	pruner := NewPruner(store, &Config{RetentionDays: 90, MaxRecords: 2})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3 (2 by age, 1 by count)", deleted)
	}
}

func TestPruneNothingConfigured(t *testing.T) {
	now := time.Now().UTC()
	store := seedStore(t, now, 1000, 500, 1)

	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 0})
	pruner.now = func() time.Time { return now }

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0 with retention disabled", deleted)
	}
}

func TestSchedulerEmptySchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{PruneSchedule: ""})
	scheduler := NewScheduler(pruner)

	if err := scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler should stay idle without a schedule")
	}
}

func TestSchedulerInvalidSchedule(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{PruneSchedule: "not a cron expr"})
	scheduler := NewScheduler(pruner)

	if err := scheduler.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded with an invalid schedule")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), &Config{PruneSchedule: "0 3 * * *"})
	scheduler := NewScheduler(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !scheduler.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}

	scheduler.Stop()
	if scheduler.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}
