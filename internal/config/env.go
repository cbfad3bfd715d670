package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it.
//
// Recognized variables:
//
//	DATABASE_DSN          PostgreSQL DSN
//	MASTER_SECRET         vault master secret
//	FETCH_TIMEOUT         per-connector timeout, Go duration ("10s")
//	SNAPSHOT_TTL          success cache TTL, Go duration
//	ERROR_SNAPSHOT_TTL    failure cache TTL, Go duration
//	CACHE_SWEEP_INTERVAL  cache eviction interval, Go duration
//	FETCH_CONCURRENCY     max connector calls in flight
func parseEnv(config *Config) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("MASTER_SECRET"); v != "" {
		config.MasterSecret = v
	}
	overlayDuration(&config.FetchTimeout, "FETCH_TIMEOUT")
	overlayDuration(&config.SnapshotTTL, "SNAPSHOT_TTL")
	overlayDuration(&config.ErrorSnapshotTTL, "ERROR_SNAPSHOT_TTL")
	overlayDuration(&config.CacheSweepInterval, "CACHE_SWEEP_INTERVAL")
	if v := os.Getenv("FETCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.FetchConcurrency = n
		}
	}
}

func overlayDuration(dst *time.Duration, name string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}
