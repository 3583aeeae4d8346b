package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/fecwatch/contribution-monitor/internal/errors"
)

// Config holds the application configuration
type Config struct {
	// Secret store namespace and backend
	ProjectID      string
	SecretsBackend string // "aws" or "env"
	AWSRegion      string

	// Digest delivery
	NotificationEmail string
	SMTP              SMTPConfig

	// FEC API
	FEC FECConfig

	// Watch list (optional JSON override of the embedded registry)
	WatchlistPath string

	// Run history storage
	Storage StorageConfig

	// API server
	APIHost string
	APIPort string
}

// SMTPConfig holds mail relay settings. Password comes from the secret
// store, never from the environment.
type SMTPConfig struct {
	Server    string
	Port      int
	Username  string
	FromEmail string
}

// FECConfig holds FEC API query settings
type FECConfig struct {
	BaseURL         string
	DaysBackLoad    int // freshness window on load_date
	DaysBackContrib int // fetch-side window on contribution receipt date
	Timeout         time.Duration
}

// StorageConfig holds run-history storage settings
type StorageConfig struct {
	Type        string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ProjectID:         getEnv("PROJECT_ID", ""),
		SecretsBackend:    getEnv("SECRETS_BACKEND", "aws"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTP: SMTPConfig{
			Server:    getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:      getEnvInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			FromEmail: getEnv("FROM_EMAIL", ""),
		},
		FEC: FECConfig{
			BaseURL:         getEnv("FEC_BASE_URL", "https://api.open.fec.gov/v1"),
			DaysBackLoad:    getEnvInt("DAYS_BACK_LOAD", 14),
			DaysBackContrib: getEnvInt("DAYS_BACK_CONTRIB", 180),
			Timeout:         getEnvDuration("FEC_TIMEOUT", 30*time.Second),
		},
		WatchlistPath: getEnv("WATCHLIST_PATH", ""),
		Storage: StorageConfig{
			Type:        getEnv("STORAGE_TYPE", "sqlite"),
			SQLitePath:  getEnv("SQLITE_PATH", "./monitor.db"),
			PostgresURL: getEnv("POSTGRES_URL", ""),
		},
		APIHost: getEnv("API_HOST", "localhost"),
		APIPort: getEnv("API_PORT", "8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return apperrors.NewConfigError("PROJECT_ID", "secret store namespace is required")
	}
	if c.NotificationEmail == "" {
		return apperrors.NewConfigError("NOTIFICATION_EMAIL", "digest recipient is required")
	}
	if c.SecretsBackend != "aws" && c.SecretsBackend != "env" {
		return apperrors.NewConfigError("SECRETS_BACKEND", "must be 'aws' or 'env'")
	}
	if c.FEC.DaysBackLoad <= 0 {
		return apperrors.NewConfigError("DAYS_BACK_LOAD", "freshness window must be positive")
	}
	if c.FEC.DaysBackContrib <= 0 {
		return apperrors.NewConfigError("DAYS_BACK_CONTRIB", "contribution window must be positive")
	}
	if c.Storage.Type != "sqlite" && c.Storage.Type != "postgres" {
		return apperrors.NewConfigError("STORAGE_TYPE", "must be 'sqlite' or 'postgres'")
	}
	if c.Storage.Type == "postgres" && c.Storage.PostgresURL == "" {
		return apperrors.NewConfigError("POSTGRES_URL", "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'")
	}
	return nil
}
