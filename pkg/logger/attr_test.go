package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}), "nil error yields an empty attr")
}

func TestErrors(t *testing.T) {
	t.Parallel()

	first := errors.New("first")
	second := errors.New("second")

	attr := logger.Errors(first, nil, second)
	require.Equal(t, "errors", attr.Key)
	grouped := attr.Value.Group()
	require.Len(t, grouped, 2)
	assert.Equal(t, first, grouped[0].Value.Any())
	assert.Equal(t, second, grouped[1].Value.Any())

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	assert.Equal(t, "req", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

func TestIdentityAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tenant", logger.TenantID("acme").Key)
	assert.Equal(t, "acme", logger.TenantID("acme").Value.String())

	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))

	d := logger.Duration(2 * time.Second)
	assert.Equal(t, "duration", d.Key)
	assert.Equal(t, 2*time.Second, d.Value.Duration())
}
