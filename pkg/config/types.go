// Package config provides configuration loading and validation for deckport.
package config

import (
	"time"

	"github.com/ccollicutt/deckport/pkg/decklist"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Catalog is the path to the card catalog file (YAML or JSON).
	Catalog string `yaml:"catalog"`

	Limits   LimitsConfig    `yaml:"limits"`
	Log      LogConfig       `yaml:"log"`
	Server   ServerConfig    `yaml:"server"`
	Store    StoreConfig     `yaml:"store"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// LimitsConfig bounds input size and deck legality.
type LimitsConfig struct {
	MaxDeckSize   int `yaml:"max_deck_size"`
	MaxCopies     int `yaml:"max_copies"`
	MaxInputChars int `yaml:"max_input_chars"`
	MaxInputLines int `yaml:"max_input_lines"`

	// DisplayLength caps the line text shown in error reports.
	DisplayLength int `yaml:"display_length"`
}

// Limits converts the configured limits for the parser.
func (l LimitsConfig) Limits() decklist.Limits {
	return decklist.Limits{
		MaxDeckSize:   l.MaxDeckSize,
		MaxCopies:     l.MaxCopies,
		MaxInputChars: l.MaxInputChars,
		MaxInputLines: l.MaxInputLines,
		DisplayLen:    l.DisplayLength,
	}
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// MaxBodyBytes caps request bodies. Deck text is additionally bounded
	// by the input limits.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StoreDriver selects a deck store implementation.
type StoreDriver string

const (
	StoreDriverFile     StoreDriver = "file"
	StoreDriverPostgres StoreDriver = "postgres"
)

// StoreConfig selects where saved decks live.
type StoreConfig struct {
	Driver StoreDriver `yaml:"driver"`

	// Path is the deck file for the file driver.
	Path string `yaml:"path,omitempty"`

	// DSN is the connection string for the postgres driver.
	// Supports ${VAR} expansion.
	DSN string `yaml:"dsn,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnIssues fires when an import has warnings or fails (default).
	WebhookTriggerOnIssues WebhookTrigger = "on_issues"
	// WebhookTriggerAlways fires after every import.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for import reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_issues" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
