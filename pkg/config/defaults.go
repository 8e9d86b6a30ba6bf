package config

import (
	"os"
	"time"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// Default values for configuration.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultServerAddr     = ":8080"
	DefaultMaxBodyBytes   = 1 << 20
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultStorePath      = "decks.yaml"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvCatalog    = "DECKPORT_CATALOG"
	EnvLogLevel   = "DECKPORT_LOG_LEVEL"
	EnvStoreDSN   = "DECKPORT_STORE_DSN"
	EnvServerAddr = "DECKPORT_SERVER_ADDR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxDeckSize:   decklist.DefaultMaxDeckSize,
			MaxCopies:     decklist.DefaultMaxCopies,
			MaxInputChars: decklist.DefaultMaxInputChars,
			MaxInputLines: decklist.DefaultMaxInputLines,
			DisplayLength: decklist.DefaultDisplayLen,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Store: StoreConfig{
			Driver: StoreDriverFile,
			Path:   DefaultStorePath,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}
