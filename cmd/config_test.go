package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults fill everything not required", func(t *testing.T) {
		t.Setenv("DB_USER", "fastship")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("JWT_SECRET", "0123456789abcdef")

		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
		assert.Equal(t, 2*time.Hour, cfg.Auth.ResetTokenTTL)
		assert.Equal(t, 72*time.Hour, cfg.EstimatedDeliveryAfter)
		assert.Equal(t, "@every 5m", cfg.ReconcileSchedule)
		assert.Empty(t, cfg.Broker.KafkaBroker)
		assert.Equal(t,
			"host=localhost port=5432 user=fastship password=secret dbname=fastship sslmode=disable",
			cfg.Database.DSN())
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("DB_USER", "fastship")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("JWT_SECRET", "0123456789abcdef")
		t.Setenv("ACCESS_TOKEN_TTL", "15m")
		t.Setenv("APP_DOMAIN", "fastship.example.com")

		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
		assert.Equal(t, "fastship.example.com", cfg.AppDomain)
	})

	t.Run("reads a .env file", func(t *testing.T) {
		dir := t.TempDir()
		content := "DB_USER=file-user\nDB_PASSWORD=file-pass\nJWT_SECRET=file-secret\nHTTP_PORT=9090\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

		cfg, err := LoadConfig(dir)

		require.NoError(t, err)
		assert.Equal(t, "file-user", cfg.Database.User)
		assert.Equal(t, "9090", cfg.HTTPPort)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DB_USER", "fastship")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig(t.TempDir())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}
