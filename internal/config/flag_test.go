package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-d", "postgres://flag/db", "-m", "flag_secret",
			"-t", "20", "-s", "600", "-f", "30", "-i", "120", "-w", "6",
		}, expectPanic: false,
			expected: &Config{
				DatabaseDSN:        "postgres://flag/db",
				MasterSecret:       "flag_secret",
				FetchTimeout:       20 * time.Second,
				SnapshotTTL:        600 * time.Second,
				ErrorSnapshotTTL:   30 * time.Second,
				CacheSweepInterval: 120 * time.Second,
				FetchConcurrency:   6,
			}},
		{name: "Test2 unknown flags ignored", args: []string{"cmd",
			"-m", "flag_secret", "-x", "unrelated",
		}, expectPanic: false,
			expected: &Config{
				MasterSecret: "flag_secret",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
