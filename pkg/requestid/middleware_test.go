package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/requestid"
)

func serve(t *testing.T, headerID string) (seen string, echoed string) {
	t.Helper()

	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if headerID != "" {
		req.Header.Set(requestid.Header, headerID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates an ID when none supplied", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "")
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, echoed)
	})

	t.Run("keeps a well-formed caller ID", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"abc123",
			"trace-41_b",
			"550e8400-e29b-41d4-a716-446655440000",
		} {
			seen, echoed := serve(t, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		}
	})

	t.Run("replaces malformed caller IDs", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{
			"has space",
			"slash/id",
			"<script>alert(1)</script>",
			strings.Repeat("x", 200),
		} {
			seen, echoed := serve(t, id)
			assert.NotEqual(t, id, seen)
			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, echoed)
		}
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	attr, ok := extract(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
