package jwt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/jwt"
)

const testSigningKey = "test-signing-key-at-least-32-bytes!"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty key rejected", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.New(nil)
		require.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()
		svc, err := jwt.NewFromString(testSigningKey)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestService_GenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(testSigningKey)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		token, err := svc.Generate(jwt.NewAccessClaims(userID, "acme", time.Hour))
		require.NoError(t, err)

		var parsed jwt.AccessClaims
		require.NoError(t, svc.Parse(token, &parsed))

		assert.Equal(t, "acme", parsed.TenantID)
		gotUser, ok := parsed.UserID()
		require.True(t, ok)
		assert.Equal(t, userID, gotUser)
	})

	t.Run("nil claims rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Generate(nil)
		require.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.NewAccessClaims(uuid.New(), "acme", -time.Minute))
		require.NoError(t, err)

		var parsed jwt.AccessClaims
		require.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.NewAccessClaims(uuid.New(), "acme", time.Hour))
		require.NoError(t, err)

		other, err := jwt.NewFromString("another-signing-key-32-bytes-long!!")
		require.NoError(t, err)

		var parsed jwt.AccessClaims
		require.ErrorIs(t, other.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		t.Parallel()
		var parsed jwt.AccessClaims
		require.ErrorIs(t, svc.Parse("not.a-token", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.NewAccessClaims(uuid.New(), "acme", time.Hour))
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		var parsed jwt.AccessClaims
		require.Error(t, svc.Parse(tampered, &parsed))
	})
}

func TestAccessClaims_UserID(t *testing.T) {
	t.Parallel()

	t.Run("non-uuid subject", func(t *testing.T) {
		t.Parallel()
		claims := jwt.AccessClaims{StandardClaims: jwt.StandardClaims{Subject: "alice"}}
		_, ok := claims.UserID()
		assert.False(t, ok)
	})

	t.Run("empty subject", func(t *testing.T) {
		t.Parallel()
		_, ok := jwt.AccessClaims{}.UserID()
		assert.False(t, ok)
	})
}
