package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken   string
	DatabaseURL     string
	LogLevel        string
	Port            string
	MigrationsPath  string
	ConversationTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		Port:            getEnvOrDefault("PORT", "8080"),
		MigrationsPath:  getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		ConversationTTL: 30 * time.Minute,
	}

	if raw := os.Getenv("CONVERSATION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", raw, err)
		}
		cfg.ConversationTTL = ttl
	}

	// Required environment variables
	if cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN"); cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
