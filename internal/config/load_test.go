package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies the values used when nothing is configured.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err, "Load() should succeed with defaults only")
	require.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.Disabled)
	assert.False(t, cfg.Auth.OIDC.Enabled())
	assert.Equal(t, "navy-log", cfg.Metrics.BodyFatFormula)
	assert.Equal(t, 7, cfg.Metrics.TrendWindowDays)
	assert.Equal(t, 7, cfg.Metrics.HistoryLimit)
	assert.Equal(t, "cm", cfg.Metrics.DefaultUnit)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QIYAS_SERVER_PORT", "9090")
	t.Setenv("QIYAS_SERVER_LOG_LEVEL", "DEBUG")
	t.Setenv("QIYAS_STORAGE_DRIVER", "sqlite")
	t.Setenv("QIYAS_STORAGE_DSN", "/var/lib/qiyas/qiyas.db")
	t.Setenv("QIYAS_AUTH_SESSION_TTL", "12h")
	t.Setenv("QIYAS_AUTH_OIDC_ISSUER_URL", "https://id.example.com")
	t.Setenv("QIYAS_AUTH_OIDC_CLIENT_ID", "qiyas")
	t.Setenv("QIYAS_AUTH_OIDC_CLIENT_SECRET", "s3cret")
	t.Setenv("QIYAS_AUTH_OIDC_REDIRECT_URL", "https://qiyas.example.com/api/auth/sso/callback")
	t.Setenv("QIYAS_METRICS_BODY_FAT_FORMULA", "navy-density")
	t.Setenv("QIYAS_METRICS_HISTORY_LIMIT", "0")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/qiyas/qiyas.db", cfg.Storage.DSN)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.OIDC.Enabled())
	assert.Equal(t, "qiyas", cfg.Auth.OIDC.ClientID)
	assert.Equal(t, "navy-density", cfg.Metrics.BodyFatFormula)
	assert.Equal(t, 0, cfg.Metrics.HistoryLimit)
}

// TestLoadFile verifies that an explicit YAML file is read and that the
// environment still wins over it.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qiyas.yaml")
	yaml := []byte(`
server:
  port: 7000
  log_format: text
storage:
  driver: postgres
  dsn: postgres://qiyas@localhost/qiyas?sslmode=disable
metrics:
  trend_window_days: 30
  default_unit: in
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("QIYAS_SERVER_PORT", "7001")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port, "environment should override the file")
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 30, cfg.Metrics.TrendWindowDays)
	assert.Equal(t, "in", cfg.Metrics.DefaultUnit)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestLoadValidationErrors verifies that invalid settings are rejected.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{"port out of range", map[string]string{"QIYAS_SERVER_PORT": "999999"}},
		{"invalid log level", map[string]string{"QIYAS_SERVER_LOG_LEVEL": "verbose"}},
		{"invalid log format", map[string]string{"QIYAS_SERVER_LOG_FORMAT": "xml"}},
		{"unknown driver", map[string]string{"QIYAS_STORAGE_DRIVER": "mongo"}},
		{"sqlite without dsn", map[string]string{"QIYAS_STORAGE_DRIVER": "sqlite"}},
		{"zero session ttl", map[string]string{"QIYAS_AUTH_SESSION_TTL": "0s"}},
		{"partial oidc", map[string]string{"QIYAS_AUTH_OIDC_CLIENT_ID": "qiyas"}},
		{"unknown formula", map[string]string{"QIYAS_METRICS_BODY_FAT_FORMULA": "jackson-pollock"}},
		{"window too large", map[string]string{"QIYAS_METRICS_TREND_WINDOW_DAYS": "400"}},
		{"negative history", map[string]string{"QIYAS_METRICS_HISTORY_LIMIT": "-1"}},
		{"bad default unit", map[string]string{"QIYAS_METRICS_DEFAULT_UNIT": "mm"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load("")

			require.Error(t, err, "Load() should reject invalid configuration")
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg)
		})
	}
}
