package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from the environment
type Config struct {
	Port    string
	DBPath  string
	BaseURL string

	// MaxGroupSize is the hard ceiling on active members per group
	MaxGroupSize int
	// LinkTTLHours is the default share link lifetime
	LinkTTLHours int
	// LinkMaxTTLHours is the furthest ahead a custom expiry may be set
	LinkMaxTTLHours int
}

// Load reads configuration from the environment, with an optional .env file
func Load() *Config {
	// .env is a development convenience; missing file is fine
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("DIVVY_PORT", "8080"),
		DBPath:          getEnv("DIVVY_DB_PATH", "divvy.db"),
		BaseURL:         getEnv("DIVVY_BASE_URL", "http://localhost:8080"),
		MaxGroupSize:    getEnvInt("DIVVY_MAX_GROUP_SIZE", 50),
		LinkTTLHours:    getEnvInt("DIVVY_LINK_TTL_HOURS", 24),
		LinkMaxTTLHours: getEnvInt("DIVVY_LINK_MAX_TTL_HOURS", 168),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
