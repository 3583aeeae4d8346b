package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

func validConfig() *Config {
	return &Config{
		ProjectID:         "fec-monitor-prod",
		SecretsBackend:    "aws",
		NotificationEmail: "alerts@example.com",
		FEC: FECConfig{
			DaysBackLoad:    14,
			DaysBackContrib: 180,
		},
		Storage: StorageConfig{Type: "sqlite", SQLitePath: "./monitor.db"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PROJECT_ID", "fec-monitor-prod")
	t.Setenv("NOTIFICATION_EMAIL", "alerts@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Server)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "https://api.open.fec.gov/v1", cfg.FEC.BaseURL)
	assert.Equal(t, 14, cfg.FEC.DaysBackLoad)
	assert.Equal(t, 180, cfg.FEC.DaysBackContrib)
	assert.Equal(t, 30*time.Second, cfg.FEC.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "aws", cfg.SecretsBackend)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("DAYS_BACK_LOAD", "7")
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost/monitor")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 7, cfg.FEC.DaysBackLoad)
	assert.Equal(t, "postgres", cfg.Storage.Type)
}

func TestValidate_MissingProjectID(t *testing.T) {
	cfg := validConfig()
	cfg.ProjectID = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "PROJECT_ID")
}

func TestValidate_MissingNotificationEmail(t *testing.T) {
	cfg := validConfig()
	cfg.NotificationEmail = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_EMAIL")
}

func TestValidate_BadStorageType(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Type = "mysql"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_TYPE")
}

func TestValidate_PostgresRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Type = "postgres"
	cfg.Storage.PostgresURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
}

func TestValidate_WindowsMustBePositive(t *testing.T) {
	cfg := validConfig()
	cfg.FEC.DaysBackLoad = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.FEC.DaysBackContrib = -1
	assert.Error(t, cfg.Validate())
}
