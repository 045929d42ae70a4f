package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SMARTMEETING_AUTH_SECRET", "secret-value")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "file:smartmeeting.db", cfg.SQLiteDSN)
	assert.Equal(t, "secret-value", cfg.AuthSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("SMARTMEETING_AUTH_SECRET", "secret-value")
	t.Setenv("SMARTMEETING_HTTP_PORT", "9090")
	t.Setenv("SMARTMEETING_SQLITE_DSN", "file:other.db")
	t.Setenv("SMARTMEETING_TOKEN_TTL", "30m")
	t.Setenv("SMARTMEETING_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "file:other.db", cfg.SQLiteDSN)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiresAuthSecret(t *testing.T) {
	t.Setenv("SMARTMEETING_AUTH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMARTMEETING_AUTH_SECRET")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SMARTMEETING_AUTH_SECRET", "secret-value")
	t.Setenv("SMARTMEETING_HTTP_PORT", "70000")
	t.Setenv("SMARTMEETING_LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMARTMEETING_HTTP_PORT")
	assert.Contains(t, err.Error(), "SMARTMEETING_LOG_LEVEL")
}
