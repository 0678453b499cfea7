package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"bmidash/internal/errors"
)

const (
	DefaultDatasetURL  = "https://raw.githubusercontent.com/synoloris/bmi-dataset/main/500_Person_Gender_Height_Weight_Index.csv"
	DefaultDatasetPath = "500_Person_Gender_Height_Weight_Index.csv"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	GinMode       string
	SecureCookies bool
}

// DatasetConfig holds where the dataset comes from and where it is kept
type DatasetConfig struct {
	URL          string
	LocalPath    string
	FetchTimeout time.Duration
	MaxBytes     int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Dataset: *loadDatasetConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:          getEnvOrDefault("PORT", "8080"),
		GinMode:       getEnvOrDefault("GIN_MODE", "release"),
		SecureCookies: getEnvBoolOrDefault("SECURE_COOKIES", false),
	}
}

func loadDatasetConfig() *DatasetConfig {
	return &DatasetConfig{
		URL:          getEnvOrDefault("DATASET_URL", DefaultDatasetURL),
		LocalPath:    getEnvOrDefault("DATASET_PATH", DefaultDatasetPath),
		FetchTimeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		MaxBytes:     getEnvInt64OrDefault("DATASET_MAX_BYTES", 10*1024*1024),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.Dataset.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigInvalid("DATASET_URL must be an absolute http(s) URL")
	}
	if strings.TrimSpace(config.Dataset.LocalPath) == "" {
		return errors.ConfigInvalid("DATASET_PATH is required")
	}
	if config.Dataset.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if config.Dataset.MaxBytes <= 0 {
		return errors.ConfigInvalid("DATASET_MAX_BYTES must be positive")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
