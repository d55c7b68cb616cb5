package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvURL        = "FLOATLOG_URL"
	EnvAPIKey     = "FLOATLOG_API_KEY"
	EnvHost       = "FLOATLOG_HOST"
	EnvPort       = "FLOATLOG_PORT"
	EnvMaxEntries = "FLOATLOG_MAX_ENTRIES"
	EnvJSON       = "FLOATLOG_JSON"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	// FLOATLOG_URL
	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = v
		cfg.Sources["url"] = SourceEnv
	}

	// FLOATLOG_API_KEY
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
		cfg.Sources["apiKey"] = SourceEnv
	}

	// FLOATLOG_HOST
	if v := os.Getenv(EnvHost); v != "" {
		cfg.Host = v
		cfg.Sources["host"] = SourceEnv
	}

	// FLOATLOG_PORT
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Sources["port"] = SourceEnv
		}
	}

	// FLOATLOG_MAX_ENTRIES
	if v := os.Getenv(EnvMaxEntries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxEntries = n
			cfg.Sources["maxEntries"] = SourceEnv
		}
	}

	// FLOATLOG_JSON
	if v := os.Getenv(EnvJSON); v != "" {
		cfg.JSON = v == "true" || v == "1" || v == "yes"
		cfg.Sources["json"] = SourceEnv
	}
}

// GetURLFromEnv returns the overlay URL from the environment variable.
// Returns empty string if not set.
func GetURLFromEnv() string {
	return os.Getenv(EnvURL)
}

// GetAPIKeyFromEnv returns the API key from the environment variable.
// Returns empty string if not set.
func GetAPIKeyFromEnv() string {
	return os.Getenv(EnvAPIKey)
}
