package tenant_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/tenant"
)

type countingDirectory struct {
	next  tenant.Directory
	calls atomic.Int64
}

func (d *countingDirectory) GetByIdentifier(ctx context.Context, id string) (*tenant.Record, error) {
	d.calls.Add(1)
	return d.next.GetByIdentifier(ctx, id)
}

func TestCachedDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		t.Parallel()
		backing := &countingDirectory{next: tenant.NewInMemoryDirectory(activeTenant("acme"))}
		dir := tenant.NewCachedDirectory(backing, 8, time.Minute)

		for range 5 {
			rec, err := dir.GetByIdentifier(ctx, "acme")
			require.NoError(t, err)
			assert.Equal(t, "acme", rec.Identifier)
		}
		assert.EqualValues(t, 1, backing.calls.Load())
	})

	t.Run("does not cache negative lookups", func(t *testing.T) {
		t.Parallel()
		mem := tenant.NewInMemoryDirectory()
		backing := &countingDirectory{next: mem}
		dir := tenant.NewCachedDirectory(backing, 8, time.Minute)

		_, err := dir.GetByIdentifier(ctx, "fresh")
		require.ErrorIs(t, err, tenant.ErrTenantNotFound)

		// Provisioning the tenant must be visible immediately.
		mem.Put(activeTenant("fresh"))
		rec, err := dir.GetByIdentifier(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, "fresh", rec.Identifier)
	})

	t.Run("invalidate forces a reload", func(t *testing.T) {
		t.Parallel()
		mem := tenant.NewInMemoryDirectory(activeTenant("acme"))
		backing := &countingDirectory{next: mem}
		dir := tenant.NewCachedDirectory(backing, 8, time.Minute)

		_, err := dir.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)

		mem.Deactivate("acme")
		dir.Invalidate("acme")

		rec, err := dir.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.False(t, rec.Active)
		assert.EqualValues(t, 2, backing.calls.Load())
	})
}
