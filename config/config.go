// Package config loads the node's TOML configuration file into a typed
// Config, decoded with github.com/naoina/toml on top of sane defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/naoina/toml"
)

// Config is the full set of settings a node needs to start.
type Config struct {
	Network NetworkConfig
	Store   StoreConfig
	Sync    SyncConfig
	Sample  SampleConfig
}

// NetworkConfig identifies which chain this node follows and how it
// bootstraps into its peer set.
type NetworkConfig struct {
	ChainID        string
	GenesisHash    string
	BootstrapPeers []string
}

// StoreBackend selects which store.Store implementation a node runs.
type StoreBackend string

const (
	StoreBackendMemory  StoreBackend = "memory"
	StoreBackendLevelDB StoreBackend = "leveldb"
)

// StoreConfig configures the header store backend.
type StoreConfig struct {
	Backend StoreBackend
	DataDir string
}

// SyncConfig holds header-sync settings decoded from the configuration
// file. No code in this module reads them.
type SyncConfig struct {
	// RangeLimit is a size bound for a single fetch request, in the form of
	// syncplan.NextToFetch's limit; nothing passes it to NextToFetch.
	RangeLimit uint64
	// ClockDriftTolerance is a clock-drift setting; header.MaxClockDrift is
	// a constant and is not changed by it.
	ClockDriftTolerance time.Duration
	// TrustLevelNumerator/TrustLevelDenominator describe a skipping
	// verification trust level; they are not copied into
	// header.DefaultTrustLevel.
	TrustLevelNumerator   uint64
	TrustLevelDenominator uint64
}

// SampleConfig holds a per-header sample count. das.Sampler does not read
// it; it always samples das.SamplesPerHeader coordinates.
type SampleConfig struct {
	SamplesPerHeader int
}

// Default returns a Config with conservative defaults, matching the values
// a node would use if started with no configuration file at all.
func Default() Config {
	return Config{
		Network: NetworkConfig{ChainID: "private"},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
			DataDir: "./data",
		},
		Sync: SyncConfig{
			RangeLimit:            512,
			ClockDriftTolerance:   10 * time.Second,
			TrustLevelNumerator:   1,
			TrustLevelDenominator: 3,
		},
		Sample: SampleConfig{SamplesPerHeader: 16},
	}
}

// Load reads and decodes the TOML file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}
