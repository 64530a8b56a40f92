package tenant

import (
	"context"
	"time"

	"github.com/domuslabs/domus/pkg/cache"
)

// CachedDirectory decorates a Directory with a bounded TTL cache. It is a
// tuning knob, not part of the baseline design: the contract is unchanged
// and staleness is bounded by the TTL. Negative lookups are not cached so a
// freshly provisioned tenant resolves immediately.
type CachedDirectory struct {
	next    Directory
	records *cache.TTLCache[string, Record]
}

// NewCachedDirectory wraps next with a cache of the given size and TTL.
func NewCachedDirectory(next Directory, size int, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:    next,
		records: cache.NewTTLCache[string, Record](size, ttl),
	}
}

func (d *CachedDirectory) GetByIdentifier(ctx context.Context, identifier string) (*Record, error) {
	if rec, ok := d.records.Get(identifier); ok {
		return &rec, nil
	}

	rec, err := d.next.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	d.records.Set(identifier, *rec)
	return rec, nil
}

// Invalidate drops the cached record for the identifier, if any.
func (d *CachedDirectory) Invalidate(identifier string) {
	d.records.Delete(identifier)
}
