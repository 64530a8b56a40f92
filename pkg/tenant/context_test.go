package tenant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/tenant"
	"github.com/domuslabs/domus/pkg/tenant/tenanttest"
)

func newTestHandle(identifier string, closer func(context.Context) error) *tenant.Handle {
	record := &tenant.Record{Identifier: identifier, Name: identifier, Active: true}
	return tenant.NewHandle(record, &tenanttest.DB{Tag: identifier}, closer)
}

func TestScope_Bind(t *testing.T) {
	t.Parallel()

	t.Run("binds exactly once", func(t *testing.T) {
		t.Parallel()
		scope := tenant.NewScope()
		first := newTestHandle("acme", nil)
		second := newTestHandle("globex", nil)

		require.NoError(t, scope.Bind(first))
		err := scope.Bind(second)
		require.ErrorIs(t, err, tenant.ErrHandleAlreadyBound)

		got, err := scope.Handle()
		require.NoError(t, err)
		assert.Same(t, first, got, "first handle must stay in place")
	})

	t.Run("unbound scope reports uninitialized", func(t *testing.T) {
		t.Parallel()
		scope := tenant.NewScope()
		_, err := scope.Handle()
		require.ErrorIs(t, err, tenant.ErrContextNotInitialized)
	})
}

func TestScope_Close(t *testing.T) {
	t.Parallel()

	t.Run("disposes handle once", func(t *testing.T) {
		t.Parallel()
		closes := 0
		scope := tenant.NewScope()
		require.NoError(t, scope.Bind(newTestHandle("acme", func(context.Context) error {
			closes++
			return nil
		})))

		require.NoError(t, scope.Close(context.Background()))
		require.NoError(t, scope.Close(context.Background()))
		assert.Equal(t, 1, closes)
	})

	t.Run("repeated close returns first result", func(t *testing.T) {
		t.Parallel()
		closeErr := errors.New("connection reset")
		scope := tenant.NewScope()
		require.NoError(t, scope.Bind(newTestHandle("acme", func(context.Context) error {
			return closeErr
		})))

		require.ErrorIs(t, scope.Close(context.Background()), closeErr)
		require.ErrorIs(t, scope.Close(context.Background()), closeErr)
	})

	t.Run("close on unbound scope is a no-op", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, tenant.NewScope().Close(context.Background()))
	})
}

func TestHandleFromContext(t *testing.T) {
	t.Parallel()

	t.Run("without scope", func(t *testing.T) {
		t.Parallel()
		_, err := tenant.HandleFromContext(context.Background())
		require.ErrorIs(t, err, tenant.ErrContextNotInitialized)
	})

	t.Run("with unbound scope", func(t *testing.T) {
		t.Parallel()
		ctx := tenant.WithScope(context.Background(), tenant.NewScope())
		_, err := tenant.HandleFromContext(ctx)
		require.ErrorIs(t, err, tenant.ErrContextNotInitialized)
	})

	t.Run("with bound scope", func(t *testing.T) {
		t.Parallel()
		scope := tenant.NewScope()
		handle := newTestHandle("acme", nil)
		require.NoError(t, scope.Bind(handle))
		ctx := tenant.WithScope(context.Background(), scope)

		got, err := tenant.HandleFromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, handle, got)

		record, err := tenant.RecordFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "acme", record.Identifier)

		db, err := tenant.DBFromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, handle.DB(), db)
	})
}
