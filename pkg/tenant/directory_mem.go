package tenant

import (
	"context"
	"sync"
	"time"
)

// InMemoryDirectory is a map-backed directory for tests and single-node
// bootstrap setups. Safe for concurrent use.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryDirectory returns a directory preloaded with the given records.
func NewInMemoryDirectory(records ...Record) *InMemoryDirectory {
	d := &InMemoryDirectory{records: make(map[string]Record, len(records))}
	for _, r := range records {
		d.records[r.Identifier] = r
	}
	return d
}

func (d *InMemoryDirectory) GetByIdentifier(ctx context.Context, identifier string) (*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.records[identifier]
	if !ok {
		return nil, ErrTenantNotFound
	}
	out := rec
	return &out, nil
}

// Put inserts or replaces a record.
func (d *InMemoryDirectory) Put(rec Record) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.UpdatedAt = time.Now()
	d.mu.Lock()
	d.records[rec.Identifier] = rec
	d.mu.Unlock()
}

// Deactivate soft-disables a record if present.
func (d *InMemoryDirectory) Deactivate(identifier string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rec, ok := d.records[identifier]; ok {
		rec.Active = false
		rec.UpdatedAt = time.Now()
		d.records[identifier] = rec
	}
}
