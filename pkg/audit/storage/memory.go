package storage

import (
	"context"
	"sync"
	"time"

	"sentinel-hq/ceres/pkg/audit"
)

// MemoryStore is an in-memory audit.Storage. Records live only for the
// process lifetime; intended for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*audit.Record
	ordered []*audit.Record // insertion order, oldest first
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*audit.Record),
	}
}

// Save persists a record. The record is copied so later caller mutations
// cannot reach stored state.
func (m *MemoryStore) Save(ctx context.Context, record *audit.Record) error {
	stored := *record

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[stored.ID]; !exists {
		m.ordered = append(m.ordered, &stored)
	} else {
		for i, r := range m.ordered {
			if r.ID == stored.ID {
				m.ordered[i] = &stored
				break
			}
		}
	}
	m.byID[stored.ID] = &stored
	return nil
}

// Get returns the record with the given ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*audit.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, audit.ErrRecordNotFound
	}
	out := *record
	return &out, nil
}

// List returns up to limit records, newest first.
func (m *MemoryStore) List(ctx context.Context, limit int) ([]*audit.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.ordered)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*audit.Record, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		record := *m.ordered[i]
		out = append(out, &record)
	}
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.ordered)), nil
}

// DeleteBefore removes records created before the cutoff.
func (m *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []*audit.Record
	var deleted int64
	for _, record := range m.ordered {
		if record.CreatedAt.Before(cutoff) {
			delete(m.byID, record.ID)
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	m.ordered = kept
	return deleted, nil
}

// DeleteOldest removes the oldest records until at most keep remain.
func (m *MemoryStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	excess := int64(len(m.ordered)) - keep
	if excess <= 0 {
		return 0, nil
	}
	for _, record := range m.ordered[:excess] {
		delete(m.byID, record.ID)
	}
	m.ordered = m.ordered[excess:]
	return excess, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
