package iam_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/modules/iam"
	"github.com/domuslabs/domus/pkg/jwt"
	"github.com/domuslabs/domus/pkg/tenant"
	"github.com/domuslabs/domus/pkg/tenant/tenanttest"
)

func userDBWithCredentials(t *testing.T, email, password string, active bool) (*tenanttest.DB, uuid.UUID) {
	t.Helper()
	hash, err := iam.HashPassword(password)
	require.NoError(t, err)

	userID := uuid.New()
	now := time.Now()
	db := &tenanttest.DB{
		Tag: "acme",
		QueryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			if len(args) == 1 && args[0] == email {
				return tenanttest.Row(userID, email, "Test User", hash, active, now, now)
			}
			return tenanttest.NoRow()
		},
	}
	return db, userID
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString("test-signing-key-at-least-32-bytes!")
	require.NoError(t, err)

	t.Run("issues token pinned to user and tenant", func(t *testing.T) {
		t.Parallel()
		db, userID := userDBWithCredentials(t, "alice@acme.test", "s3cret-pass", true)
		ctx := tenantContext(t, "acme", db)

		auth := iam.NewAuthService(iam.NewRepository(), tokens, time.Hour)
		token, user, err := auth.Login(ctx, "alice@acme.test", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)

		var claims jwt.AccessClaims
		require.NoError(t, tokens.Parse(token, &claims))
		assert.Equal(t, "acme", claims.TenantID)
		gotUser, ok := claims.UserID()
		require.True(t, ok)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		db, _ := userDBWithCredentials(t, "alice@acme.test", "s3cret-pass", true)
		ctx := tenantContext(t, "acme", db)

		auth := iam.NewAuthService(iam.NewRepository(), tokens, time.Hour)
		_, _, err := auth.Login(ctx, "alice@acme.test", "wrong")
		require.ErrorIs(t, err, iam.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		t.Parallel()
		db, _ := userDBWithCredentials(t, "alice@acme.test", "s3cret-pass", true)
		ctx := tenantContext(t, "acme", db)

		auth := iam.NewAuthService(iam.NewRepository(), tokens, time.Hour)
		_, _, err := auth.Login(ctx, "ghost@acme.test", "s3cret-pass")
		require.ErrorIs(t, err, iam.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		t.Parallel()
		db, _ := userDBWithCredentials(t, "alice@acme.test", "s3cret-pass", false)
		ctx := tenantContext(t, "acme", db)

		auth := iam.NewAuthService(iam.NewRepository(), tokens, time.Hour)
		_, _, err := auth.Login(ctx, "alice@acme.test", "s3cret-pass")
		require.ErrorIs(t, err, iam.ErrUserInactive)
	})

	t.Run("no tenant resolved", func(t *testing.T) {
		t.Parallel()
		auth := iam.NewAuthService(iam.NewRepository(), tokens, time.Hour)
		_, _, err := auth.Login(context.Background(), "alice@acme.test", "s3cret-pass")
		require.ErrorIs(t, err, tenant.ErrContextNotInitialized)
	})
}

func TestPassword(t *testing.T) {
	t.Parallel()

	t.Run("hash verifies", func(t *testing.T) {
		t.Parallel()
		hash, err := iam.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, iam.VerifyPassword(hash, "correct horse battery staple"))
		assert.False(t, iam.VerifyPassword(hash, "incorrect horse"))
	})

	t.Run("empty password rejected", func(t *testing.T) {
		t.Parallel()
		_, err := iam.HashPassword("")
		require.Error(t, err)
	})
}
