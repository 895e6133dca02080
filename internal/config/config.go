package config

import (
	"os"
	"strconv"
	"time"

	"edadash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Data      DataConfig
	Session   SessionConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LLMConfig holds chat-completion settings. The API key is never read from
// the environment: every user supplies their own in the sidebar.
type LLMConfig struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DataConfig holds dataset ingestion settings
type DataConfig struct {
	ExampleDataset string
	MaxUploadMB    int64
}

// SessionConfig controls how long idle sessions are kept in memory
type SessionConfig struct {
	TTL time.Duration
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		LLM:       *loadLLMConfig(),
		Data:      *loadDataConfig(),
		Session:   *loadSessionConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadLLMConfig() *LLMConfig {
	return &LLMConfig{
		Model:   getEnvOrDefault("LLM_MODEL", "gpt-3.5-turbo"),
		BaseURL: getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Timeout: getEnvDurationOrDefault("LLM_TIMEOUT", 0),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		ExampleDataset: getEnvOrDefault("EXAMPLE_DATASET", ""),
		MaxUploadMB:    int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 200)),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL: getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.LLM.Model == "" {
		return errors.ConfigInvalid("LLM model is required")
	}
	if config.Data.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.LLM.Timeout < 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT must not be negative")
	}
	if config.Data.ExampleDataset != "" {
		if _, err := os.Stat(config.Data.ExampleDataset); err != nil {
			return errors.ConfigInvalid("EXAMPLE_DATASET does not exist: " + config.Data.ExampleDataset)
		}
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
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
