package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want environment.Environment
	}{
		{"production", environment.Production},
		{"prod", environment.Production},
		{"staging", environment.Staging},
		{"stage", environment.Staging},
		{"development", environment.Development},
		{"dev", environment.Development},
		{"", environment.Development},
		{"weird", environment.Development},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, environment.Parse(tc.in), "input %q", tc.in)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := environment.WithContext(context.Background(), environment.Production)
	assert.Equal(t, environment.Production, environment.FromContext(ctx))
	assert.True(t, environment.IsProduction(ctx))

	assert.Empty(t, environment.FromContext(context.Background()))
	assert.False(t, environment.IsProduction(context.Background()))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var seen environment.Environment
	handler := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = environment.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, environment.Staging, seen)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := environment.LoggerExtractor()

	attr, ok := extract(environment.WithContext(context.Background(), environment.Development))
	require.True(t, ok)
	assert.Equal(t, "env", attr.Key)
	assert.Equal(t, "development", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
