package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "user-auth-service", cfg.App.Name)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	require.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	require.Equal(t, 12, cfg.Auth.BcryptCost)
	require.True(t, cfg.Postgres.RunMigrations)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_JWT_SECRET", "prod-secret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	require.Equal(t, "prod-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	require.False(t, cfg.Postgres.RunMigrations)
	require.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadInvalidIntsFallBack(t *testing.T) {
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	require.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "oops")

	_, err := Load()
	require.Error(t, err)
}
