package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("IDENTITY_JWT_ACCESS_SECRET", "test-access-secret")
	t.Setenv("IDENTITY_JWT_REFRESH_SECRET", "test-refresh-secret")
}

func TestLoad_DefaultsFromEnvironmentOnly(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "15m", cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "7d", cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, time.Hour, cfg.PasswordReset.TokenTTL)
	assert.Equal(t, 32, cfg.PasswordReset.TokenByteLength)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Security.RateLimiting.Enabled)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	setRequiredSecrets(t)
	t.Setenv("IDENTITY_SERVER_PORT", "9999")
	t.Setenv("IDENTITY_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingSecretsRejected(t *testing.T) {
	t.Setenv("IDENTITY_JWT_ACCESS_SECRET", "")
	t.Setenv("IDENTITY_JWT_REFRESH_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_IdenticalSecretsRejected(t *testing.T) {
	t.Setenv("IDENTITY_JWT_ACCESS_SECRET", "same-secret")
	t.Setenv("IDENTITY_JWT_REFRESH_SECRET", "same-secret")

	_, err := Load()
	assert.Error(t, err)
}
