package configs

import (
	"os"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Metrics  MetricsConfig
	Database DatabaseConfig
	Model    ModelConfig
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// MetricsConfig holds the metrics endpoint configuration
type MetricsConfig struct {
	Port string
}

// DatabaseConfig holds database configuration. An empty URL selects
// the in-memory ledger.
type DatabaseConfig struct {
	URL string
}

// ModelConfig holds the language-model client configuration. An empty
// API key selects the rule-based classifier and planner.
type ModelConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	FallbackModels []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Metrics: MetricsConfig{
			Port: getEnv("METRICS_PORT", "9090"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Model: ModelConfig{
			BaseURL:        getEnv("MODEL_BASE_URL", ""),
			APIKey:         getEnv("GROQ_API_KEY", ""),
			Model:          getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			FallbackModels: splitList(getEnv("GROQ_FALLBACK_MODELS", "llama-3.1-8b-instant,mixtral-8x7b-32768,gemma2-9b-it")),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
