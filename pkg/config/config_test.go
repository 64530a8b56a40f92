package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domuslabs/domus/pkg/config"
)

type serverConfig struct {
	Host string `env:"TEST_SERVER_HOST" envDefault:"localhost"`
	Port int    `env:"TEST_SERVER_PORT" envDefault:"8080"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("reads environment values", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_SERVER_HOST", "0.0.0.0")
		t.Setenv("TEST_SERVER_PORT", "9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("TEST_SERVER_HOST")
		os.Unsetenv("TEST_SERVER_PORT")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("missing required value fails", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("TEST_REQUIRED_SECRET")

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		err := config.Load[serverConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("same type parsed once", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_SERVER_PORT", "7001")

		var first serverConfig
		require.NoError(t, config.Load(&first))
		require.Equal(t, 7001, first.Port)

		// Environment changes after the first load are not observed.
		t.Setenv("TEST_SERVER_PORT", "7002")
		var second serverConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 7001, second.Port)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("loads values from explicit files", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("TEST_SERVER_HOST")

		dir := t.TempDir()
		envFile := filepath.Join(dir, "custom.env")
		require.NoError(t, os.WriteFile(envFile, []byte("TEST_SERVER_HOST=from-file\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("TEST_SERVER_HOST") })

		require.NoError(t, config.LoadEnv(envFile))

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-file", cfg.Host)
	})

	t.Run("missing file errors", func(t *testing.T) {
		err := config.LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrLoadingEnvFiles)
	})

	t.Run("process environment wins over file", func(t *testing.T) {
		config.Reset()
		t.Setenv("TEST_SERVER_HOST", "from-env")

		dir := t.TempDir()
		envFile := filepath.Join(dir, "custom.env")
		require.NoError(t, os.WriteFile(envFile, []byte("TEST_SERVER_HOST=from-file\n"), 0o600))

		require.NoError(t, config.LoadEnv(envFile))

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Host)
	})
}

func TestMustLoad(t *testing.T) {
	config.Reset()
	os.Unsetenv("TEST_REQUIRED_SECRET")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
