package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/jwt"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(testSigningKey)
	require.NoError(t, err)

	t.Run("valid token populates context", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		token, err := svc.Generate(jwt.NewAccessClaims(userID, "acme", time.Hour))
		require.NoError(t, err)

		handler := jwt.Middleware(svc, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := jwt.TenantIDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "acme", tenantID)

			gotUser, ok := jwt.UserIDFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, userID, gotUser)

			raw, ok := jwt.TokenFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, token, raw)

			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/communities", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		t.Parallel()
		handler := jwt.Middleware(svc, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler must not run")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		t.Parallel()
		token, err := svc.Generate(jwt.NewAccessClaims(uuid.New(), "acme", -time.Minute))
		require.NoError(t, err)

		handler := jwt.Middleware(svc, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler must not run")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("skip paths bypass verification", func(t *testing.T) {
		t.Parallel()
		handler := jwt.Middleware(svc, jwt.SkipPaths("/iam/login"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := jwt.ClaimsFromContext(r.Context())
			assert.False(t, ok, "skipped requests carry no claims")
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/iam/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			got, err := jwt.BearerToken(req)
			if tt.wantErr {
				require.ErrorIs(t, err, jwt.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
