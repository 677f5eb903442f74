// internal/store/memory.go
//
// In-memory Store, used when DB_PATH is empty and in tests.
//   - Records keyed by ID in a map, guarded by an RWMutex.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"
)

type memory struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[string]Record), now: time.Now}
}

func (m *memory) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.UpdatedAt = m.now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.records[id]; ok {
		return rec, nil
	}
	return Record{}, ErrNotFound
}
