// Package config holds process configuration populated from the environment
// at startup. Plain struct, no reflection; collaborators receive the values
// they need through constructors.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration.
type Config struct {
	// Local store
	DatabaseURL string

	// Remote sync. Empty RemoteBaseURL means no remote is configured and
	// sync passes report "skipped" without touching entries.
	RemoteBaseURL  string
	RemoteAPIKey   string
	RemoteTimeout  time.Duration
	DeviceID       string
	SyncBatchSize  int
	SyncDebounce   time.Duration
	SyncPollPeriod time.Duration

	// HTTP server
	ListenAddr string

	// Logging
	LogLevel    string
	Development bool
}

// Load reads configuration from the environment with production defaults.
func Load() Config {
	return Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RemoteBaseURL:  os.Getenv("REMOTE_BASE_URL"),
		RemoteAPIKey:   os.Getenv("REMOTE_API_KEY"),
		RemoteTimeout:  getDuration("REMOTE_TIMEOUT", 10*time.Second),
		DeviceID:       getEnv("DEVICE_ID", "dev-local"),
		SyncBatchSize:  getInt("SYNC_BATCH_SIZE", 100),
		SyncDebounce:   getDuration("SYNC_DEBOUNCE", 100*time.Millisecond),
		SyncPollPeriod: getDuration("SYNC_POLL_PERIOD", 30*time.Second),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Development:    getEnv("APP_ENV", "development") == "development",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
