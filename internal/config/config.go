package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Retrieval service (Bright Data Web Unlocker). Empty key puts the
	// client in sample-data mode.
	BrightDataAPIKey   string
	BrightDataZoneName string

	// Text-generation backend. Empty key disables enrichment and the
	// deterministic paths take over.
	GeminiAPIKey string
	GeminiModel  string

	// Per-source retrieval bound. A hanging source fails its search
	// instead of stalling it forever.
	SourceTimeout time.Duration

	// Searches older than this are purged by the cleanup job
	SearchRetention time.Duration

	// S3-compatible backup target (Cloudflare R2). Disabled when the
	// bucket is empty.
	BackupBucket    string
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("PORT", 8080),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/tripscout.db"),
		BrightDataAPIKey:   getEnv("BRIGHT_DATA_API_KEY", ""),
		BrightDataZoneName: getEnv("BRIGHT_DATA_ZONE_NAME", "mcp_unlocker"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		SourceTimeout:      getEnvAsDuration("SOURCE_TIMEOUT", 90*time.Second),
		SearchRetention:    getEnvAsDuration("SEARCH_RETENTION", 30*24*time.Hour),
		BackupBucket:       getEnv("BACKUP_BUCKET", ""),
		BackupEndpoint:     getEnv("BACKUP_ENDPOINT", ""),
		BackupAccessKey:    getEnv("BACKUP_ACCESS_KEY", ""),
		BackupSecretKey:    getEnv("BACKUP_SECRET_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("SOURCE_TIMEOUT must be positive")
	}
	if c.BackupBucket != "" && c.BackupEndpoint == "" {
		return fmt.Errorf("BACKUP_ENDPOINT is required when BACKUP_BUCKET is set")
	}
	return nil
}

// BackupEnabled reports whether cloud backups are configured
func (c *Config) BackupEnabled() bool {
	return c.BackupBucket != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
