package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sentinel-hq/ceres/pkg/audit"
)

func testRecord(id string, createdAt time.Time) *audit.Record {
	return &audit.Record{
		ID:         id,
		CreatedAt:  createdAt,
		TextSHA256: "deadbeef",
		TextLength: 42,
		Compliant:  true,
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	record := testRecord("r1", time.Now().UTC())
	if err := store.Save(ctx, record); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Mutating the caller's record after Save must not reach stored state.
	record.Compliant = false

	got, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !got.Compliant {
		t.Error("stored record was mutated through the caller's pointer")
	}

	// Mutating a returned record must not reach stored state either.
	got.TextLength = 0
	again, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if again.TextLength != 42 {
		t.Error("stored record was mutated through a returned copy")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, audit.ErrRecordNotFound) {
		t.Errorf("Get() error = %v, want ErrRecordNotFound", err)
	}
}

func TestMemoryStoreSaveUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created := time.Now().UTC()
	if err := store.Save(ctx, testRecord("r1", created)); err != nil {
		t.Fatal(err)
	}
	updated := testRecord("r1", created)
	updated.ViolationCount = 3
	if err := store.Save(ctx, updated); err != nil {
		t.Fatal(err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after upsert, want 1", count)
	}

	got, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ViolationCount != 3 {
		t.Errorf("ViolationCount = %d, want 3", got.ViolationCount)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		record := testRecord(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(ctx, record); err != nil {
			t.Fatal(err)
		}
	}

	// Newest first.
	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List(3) returned %d records", len(records))
	}
	for i, want := range []string{"r4", "r3", "r2"} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}

	// Non-positive limit returns everything.
	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("List(0) returned %d records, want 5", len(all))
	}
}

func TestMemoryStoreDeleteBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := store.Save(ctx, testRecord(fmt.Sprintf("r%d", i), base.AddDate(0, 0, i))); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("DeleteBefore() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	if _, err := store.Get(ctx, "r0"); !errors.Is(err, audit.ErrRecordNotFound) {
		t.Error("r0 should be deleted")
	}
	if _, err := store.Get(ctx, "r2"); err != nil {
		t.Errorf("r2 at the cutoff should survive: %v", err)
	}
}

func TestMemoryStoreDeleteOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if err := store.Save(ctx, testRecord(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := store.DeleteOldest(ctx, 2)
	if err != nil {
		t.Fatalf("DeleteOldest() error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != "r4" || records[1].ID != "r3" {
		t.Errorf("surviving records = %v", records)
	}

	// Already under the cap: nothing to do.
	deleted, err = store.DeleteOldest(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}
