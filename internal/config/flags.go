package config

import (
	"flag"
	"os"
	"time"

	"github.com/creatorpulse/channelvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-m string   vault master secret
//	-t int      per-connector fetch timeout, seconds
//	-s int      success snapshot TTL, seconds
//	-f int      failure snapshot TTL, seconds
//	-i int      cache sweep interval, seconds
//	-w int      max connector calls in flight
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in seconds and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-t", "-s", "-f", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MasterSecret, "m", config.MasterSecret, "vault master secret")

	fetchTimeout := fs.Int("t", int(config.FetchTimeout.Seconds()), "fetch timeout (in seconds)")
	snapshotTTL := fs.Int("s", int(config.SnapshotTTL.Seconds()), "snapshot TTL (in seconds)")
	errorTTL := fs.Int("f", int(config.ErrorSnapshotTTL.Seconds()), "error snapshot TTL (in seconds)")
	sweepInterval := fs.Int("i", int(config.CacheSweepInterval.Seconds()), "cache sweep interval (in seconds)")

	fs.IntVar(&config.FetchConcurrency, "w", config.FetchConcurrency, "max connector calls in flight")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.FetchTimeout = time.Duration(*fetchTimeout) * time.Second
	config.SnapshotTTL = time.Duration(*snapshotTTL) * time.Second
	config.ErrorSnapshotTTL = time.Duration(*errorTTL) * time.Second
	config.CacheSweepInterval = time.Duration(*sweepInterval) * time.Second
}
