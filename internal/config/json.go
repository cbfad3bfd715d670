package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/creatorpulse/channelvault/internal/flagx"
	"github.com/creatorpulse/channelvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "300s" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN        string         `json:"database_dsn"`
	MasterSecret       string         `json:"master_secret"`
	FetchTimeout       timex.Duration `json:"fetch_timeout"`
	SnapshotTTL        timex.Duration `json:"snapshot_ttl"`
	ErrorSnapshotTTL   timex.Duration `json:"error_snapshot_ttl"`
	CacheSweepInterval timex.Duration `json:"cache_sweep_interval"`
	FetchConcurrency   int            `json:"fetch_concurrency"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. Fields absent from the file keep
// their current values. If the file cannot be read or contains invalid
// JSON, the function panics: a present-but-broken config file is a
// deployment error worth failing loudly on.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.MasterSecret != "" {
		config.MasterSecret = c.MasterSecret
	}
	if c.FetchTimeout.Duration > 0 {
		config.FetchTimeout = time.Duration(c.FetchTimeout.Duration)
	}
	if c.SnapshotTTL.Duration > 0 {
		config.SnapshotTTL = time.Duration(c.SnapshotTTL.Duration)
	}
	if c.ErrorSnapshotTTL.Duration > 0 {
		config.ErrorSnapshotTTL = time.Duration(c.ErrorSnapshotTTL.Duration)
	}
	if c.CacheSweepInterval.Duration > 0 {
		config.CacheSweepInterval = time.Duration(c.CacheSweepInterval.Duration)
	}
	if c.FetchConcurrency > 0 {
		config.FetchConcurrency = c.FetchConcurrency
	}
}
