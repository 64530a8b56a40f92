package permission_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/permission"
)

// countingSource tracks how many times permissions were computed.
type countingSource struct {
	perms map[uuid.UUID][]string
	err   error
	loads atomic.Int64
}

func (s *countingSource) Load(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.perms[userID], nil
}

func TestResolver_Check(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("computes once and serves from cache", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		source := &countingSource{perms: map[uuid.UUID][]string{
			userID: {"CommunityManagement_Read", "FacilityBooking_Create"},
		}}
		resolver := permission.NewResolver(source)
		defer resolver.Close()

		assert.True(t, resolver.Check(ctx, "acme", userID, "CommunityManagement", "Read"))
		assert.False(t, resolver.Check(ctx, "acme", userID, "CommunityManagement", "Create"))
		assert.True(t, resolver.Check(ctx, "acme", userID, "FacilityBooking", "Create"))

		assert.EqualValues(t, 1, source.loads.Load(), "repeat checks must hit the cache")
	})

	t.Run("cache keys are tenant scoped", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		source := &countingSource{perms: map[uuid.UUID][]string{
			userID: {"Notification_Read"},
		}}
		resolver := permission.NewResolver(source)
		defer resolver.Close()

		assert.True(t, resolver.Check(ctx, "acme", userID, "Notification", "Read"))
		assert.True(t, resolver.Check(ctx, "globex", userID, "Notification", "Read"))
		assert.EqualValues(t, 2, source.loads.Load(), "each tenant computes its own entry")
	})

	t.Run("load failure denies", func(t *testing.T) {
		t.Parallel()
		source := &countingSource{err: errors.New("connection reset")}
		resolver := permission.NewResolver(source)
		defer resolver.Close()

		assert.False(t, resolver.Check(ctx, "acme", uuid.New(), "CommunityManagement", "Read"))
	})

	t.Run("failed load is not cached", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		source := &countingSource{
			err:   errors.New("connection reset"),
			perms: map[uuid.UUID][]string{userID: {"CommunityManagement_Read"}},
		}
		resolver := permission.NewResolver(source)
		defer resolver.Close()

		assert.False(t, resolver.Check(ctx, "acme", userID, "CommunityManagement", "Read"))

		source.err = nil
		assert.True(t, resolver.Check(ctx, "acme", userID, "CommunityManagement", "Read"))
		assert.EqualValues(t, 2, source.loads.Load())
	})

	t.Run("empty permission set denies everything", func(t *testing.T) {
		t.Parallel()
		source := &countingSource{perms: map[uuid.UUID][]string{}}
		resolver := permission.NewResolver(source)
		defer resolver.Close()

		assert.False(t, resolver.Check(ctx, "acme", uuid.New(), "UserManagement", "Delete"))
	})
}

func TestResolver_Invalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	source := &countingSource{perms: map[uuid.UUID][]string{
		userID: {"UserManagement_Read"},
	}}
	resolver := permission.NewResolver(source)
	defer resolver.Close()

	assert.True(t, resolver.Check(ctx, "acme", userID, "UserManagement", "Read"))

	// Simulate a role edit followed by explicit revocation.
	source.perms[userID] = nil
	assert.True(t, resolver.Check(ctx, "acme", userID, "UserManagement", "Read"),
		"cached entry still answers until invalidated")

	resolver.Invalidate(ctx, "acme", userID)
	assert.False(t, resolver.Check(ctx, "acme", userID, "UserManagement", "Read"))
	assert.EqualValues(t, 2, source.loads.Load())
}

func TestMemoryCache_SlidingWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cache := permission.NewMemoryCache(50 * time.Millisecond)
	defer cache.Close()

	cache.Set(ctx, "acme:u1", permission.NewSet("CommunityManagement_Read"))

	// Keep touching the entry; each Get renews the window.
	for range 4 {
		time.Sleep(30 * time.Millisecond)
		_, ok := cache.Get(ctx, "acme:u1")
		require.True(t, ok, "active entry must not expire mid-use")
	}

	// A full window of inactivity expires it.
	time.Sleep(80 * time.Millisecond)
	_, ok := cache.Get(ctx, "acme:u1")
	assert.False(t, ok)
}

func TestResolver_RecomputeAfterExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	source := &countingSource{perms: map[uuid.UUID][]string{
		userID: {"FileManagement_Read"},
	}}
	cache := permission.NewMemoryCache(40 * time.Millisecond)
	resolver := permission.NewResolver(source, permission.WithCache(cache))
	defer resolver.Close()

	assert.True(t, resolver.Check(ctx, "acme", userID, "FileManagement", "Read"))
	time.Sleep(70 * time.Millisecond)
	assert.True(t, resolver.Check(ctx, "acme", userID, "FileManagement", "Read"))
	assert.EqualValues(t, 2, source.loads.Load(), "expired entry recomputes from source")
}
