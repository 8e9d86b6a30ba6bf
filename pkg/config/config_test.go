package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
catalog: cards.yaml
limits:
  max_deck_size: 60
  max_copies: 4
log:
  level: debug
  format: json
server:
  addr: "127.0.0.1:9090"
  read_timeout: 5s
store:
  driver: file
  path: saved/decks.yaml
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	dir := filepath.Dir(path)
	if cfg.Catalog != filepath.Join(dir, "cards.yaml") {
		t.Errorf("Catalog = %q, want path relative to config", cfg.Catalog)
	}
	if cfg.Store.Path != filepath.Join(dir, "saved", "decks.yaml") {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Limits.MaxDeckSize != 60 || cfg.Limits.MaxCopies != 4 {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	// Unset limits keep their defaults.
	if cfg.Limits.MaxInputLines != 1000 {
		t.Errorf("MaxInputLines = %d, want 1000", cfg.Limits.MaxInputLines)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
}

func TestLoad_AbsolutePathsUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "cards.yaml")
	path := writeTempFile(t, "config.yaml", "catalog: "+abs+"\n")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog != abs {
		t.Errorf("Catalog = %q, want %q", cfg.Catalog, abs)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvCatalog, "/etc/deckport/cards.yaml")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvServerAddr, ":7070")

	path := writeTempFile(t, "config.yaml", "catalog: local.yaml\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog != "/etc/deckport/cards.yaml" {
		t.Errorf("Catalog = %q, want env override", cfg.Catalog)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestLoadOrDefault_NoPath(t *testing.T) {
	t.Setenv(EnvCatalog, "cards.yaml")

	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Catalog != "cards.yaml" {
		t.Errorf("Catalog = %q", cfg.Catalog)
	}
	if cfg.Store.Driver != StoreDriverFile {
		t.Errorf("Store.Driver = %q", cfg.Store.Driver)
	}
}

func TestLoad_PostgresDSNFromEnvironment(t *testing.T) {
	t.Setenv(EnvStoreDSN, "postgres://deckport@localhost/decks")

	path := writeTempFile(t, "config.yaml", "store:\n  driver: postgres\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.DSN != "postgres://deckport@localhost/decks" {
		t.Errorf("Store.DSN = %q", cfg.Store.DSN)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(DefaultConfig()) error = %v", err)
	}

	l := cfg.Limits.Limits()
	if l.MaxDeckSize != 50 || l.MaxCopies != 3 || l.MaxInputChars != 50000 ||
		l.MaxInputLines != 1000 || l.DisplayLen != 40 {
		t.Errorf("Limits() = %+v", l)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero deck size", func(c *Config) { c.Limits.MaxDeckSize = 0 }, "limits"},
		{"negative copies", func(c *Config) { c.Limits.MaxCopies = -1 }, "limits"},
		{"short display length", func(c *Config) { c.Limits.DisplayLength = 2 }, "limits"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server"},
		{"zero body size", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, "store"},
		{"file driver without path", func(c *Config) { c.Store.Path = "" }, "store"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = StoreDriverPostgres }, "store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.want) {
				t.Errorf("Validate() error = %q, want prefix %q", err, tt.want)
			}
		})
	}
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "DEBUG"
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_PostgresDSNExpansion(t *testing.T) {
	t.Setenv("TEST_DECKPORT_DSN", "postgres://localhost/test")

	cfg := DefaultConfig()
	cfg.Store = StoreConfig{Driver: StoreDriverPostgres, DSN: "${TEST_DECKPORT_DSN}"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Store.DSN != "postgres://localhost/test" {
		t.Errorf("DSN = %q", cfg.Store.DSN)
	}
}

// ============================================================================
// Webhook Validation Tests
// ============================================================================

func configWithWebhooks(hooks ...WebhookConfig) *Config {
	cfg := DefaultConfig()
	cfg.Webhooks = hooks
	return cfg
}

func TestValidate_Webhook_Valid(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{
		Name:    "test-webhook",
		URL:     "https://example.com/webhook",
		Trigger: WebhookTriggerOnIssues,
		Timeout: 10 * time.Second,
	})
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_ValidHTTP(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{URL: "http://localhost:8080/webhook"})
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Webhook_MissingURL(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{Name: "no-url", Trigger: WebhookTriggerOnIssues})
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for missing URL")
	}
}

func TestValidate_Webhook_InvalidScheme(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{URL: "ftp://example.com/webhook"})
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for non-http scheme")
	}
}

func TestValidate_Webhook_MissingHost(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{URL: "https:///webhook"})
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for missing host")
	}
}

func TestValidate_Webhook_InvalidTrigger(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{URL: "https://example.com/webhook", Trigger: "invalid_trigger"})
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() expected error for invalid trigger")
	}
	if !strings.Contains(err.Error(), "webhooks[0] (https://example.com/webhook)") {
		t.Errorf("error should name the webhook, got %q", err)
	}
}

func TestValidate_Webhook_AllTriggers(t *testing.T) {
	for _, trigger := range []WebhookTrigger{WebhookTriggerOnIssues, WebhookTriggerAlways, WebhookTriggerNever} {
		cfg := configWithWebhooks(WebhookConfig{URL: "https://example.com/webhook", Trigger: trigger})
		if err := Validate(cfg); err != nil {
			t.Errorf("Validate() with trigger %q error = %v", trigger, err)
		}
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := configWithWebhooks(WebhookConfig{URL: "https://example.com/webhook"})
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnIssues {
		t.Errorf("Default trigger = %v, want %v", cfg.Webhooks[0].Trigger, WebhookTriggerOnIssues)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Default timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestValidate_Webhook_TokenExpansion(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	cfg := configWithWebhooks(WebhookConfig{URL: "https://example.com/webhook", Token: "${TEST_WEBHOOK_TOKEN}"})
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Token != "secret-value" {
		t.Errorf("Token = %q, want expanded value", cfg.Webhooks[0].Token)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
webhooks:
  - name: test-webhook
    url: "https://example.com/webhook"
    trigger: on_issues
    timeout: 30s
  - url: "https://backup.example.com/webhook"
    trigger: always
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Name != "test-webhook" {
		t.Errorf("Webhook[0].Name = %q, want %q", cfg.Webhooks[0].Name, "test-webhook")
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want %v", cfg.Webhooks[1].Trigger, WebhookTriggerAlways)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
