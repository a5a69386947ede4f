package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	BackendNakama = "nakama"
	BackendSQLite = "sqlite"
)

// Config holds the module settings read from the Nakama runtime environment
// (the runtime.env section of the server config).
type Config struct {
	// TickRate is the match loop frequency in ticks per second.
	TickRate int `env:"memory_tick_rate" envDefault:"5"`
	// StoreBackend selects where stats and gardens are persisted.
	StoreBackend string `env:"memory_store_backend" envDefault:"nakama"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `env:"memory_sqlite_path" envDefault:"memory_garden.db"`
	// RecentLimit caps the recent games returned by memory_get_stats.
	RecentLimit int `env:"memory_recent_limit" envDefault:"5"`
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// Parse builds a Config from the given environment map. Keys missing from
// environment take their defaults.
func Parse(environment map[string]string) (Config, error) {
	var c Config
	if environment == nil {
		environment = map[string]string{}
	}
	if err := env.ParseWithOptions(&c, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the module cannot run with.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 60 {
		return fmt.Errorf("memory_tick_rate must be between 1 and 60, got %d", c.TickRate)
	}
	switch c.StoreBackend {
	case BackendNakama:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("memory_sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown memory_store_backend %q", c.StoreBackend)
	}
	if c.RecentLimit < 1 {
		return fmt.Errorf("memory_recent_limit must be positive, got %d", c.RecentLimit)
	}
	return nil
}

// Load parses the configuration once. Later calls return the first result.
func Load(environment map[string]string) error {
	loadOnce.Do(func() {
		c, err := Parse(environment)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Get returns the loaded configuration, or the defaults when Load has not
// succeeded.
func Get() Config {
	if cfg == nil {
		c, _ := Parse(nil)
		return c
	}
	return *cfg
}
