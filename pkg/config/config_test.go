package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_MergesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[api]
port = 9090

[webhook]
default_url = "https://hooks.example/scan"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
	if cfg.Webhook.DefaultURL != "https://hooks.example/scan" {
		t.Errorf("Webhook.DefaultURL = %q", cfg.Webhook.DefaultURL)
	}
	if cfg.Cooldown() != 3*time.Second {
		t.Errorf("Cooldown() = %v, want 3s", cfg.Cooldown())
	}
	if cfg.WebhookTimeout() != 10*time.Second {
		t.Errorf("WebhookTimeout() = %v, want 10s", cfg.WebhookTimeout())
	}
	if cfg.Decoder.FPS != 10 || cfg.Decoder.BoxWidth != 250 || cfg.Decoder.BoxHeight != 250 {
		t.Errorf("Decoder = %+v, want defaults", cfg.Decoder)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("[api\nport = ")); err == nil {
		t.Error("Parse() error = nil for malformed TOML")
	}
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("QRSCAN_CONFIG", path)
	t.Setenv("QRSCAN_API_PORT", "")
	t.Setenv("BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	cfg.CLI.SessionID = "3f0c7a52-0000-4000-8000-000000000000"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.CLI.SessionID != cfg.CLI.SessionID {
		t.Errorf("SessionID = %q, want %q", reloaded.CLI.SessionID, cfg.CLI.SessionID)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QRSCAN_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("QRSCAN_API_PORT", "7070")
	t.Setenv("QRSCAN_WEBHOOK_URL", "https://env.example/hook")
	t.Setenv("BASE_URL", "http://scanner.local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port = %d, want 7070", cfg.API.Port)
	}
	if cfg.Webhook.DefaultURL != "https://env.example/hook" {
		t.Errorf("Webhook.DefaultURL = %q", cfg.Webhook.DefaultURL)
	}
	if cfg.CLI.BaseURL != "http://scanner.local" {
		t.Errorf("CLI.BaseURL = %q", cfg.CLI.BaseURL)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(*Config) bool
	}{
		{"api.port", "9000", false, func(c *Config) bool { return c.API.Port == 9000 }},
		{"api.port", "nine", true, nil},
		{"api.allowed_origins", "https://a.example, https://b.example", false, func(c *Config) bool {
			return len(c.API.AllowedOrigins) == 2 && c.API.AllowedOrigins[1] == "https://b.example"
		}},
		{"scanner.cooldown_ms", "5000", false, func(c *Config) bool { return c.Scanner.CooldownMS == 5000 }},
		{"webhook.default_url", "https://x.example", false, func(c *Config) bool { return c.Webhook.DefaultURL == "https://x.example" }},
		{"webhook.timeout_ms", "2500", false, func(c *Config) bool { return c.Webhook.TimeoutMS == 2500 }},
		{"decoder.fps", "15", false, func(c *Config) bool { return c.Decoder.FPS == 15 }},
		{"cli.session_id", "abc", false, func(c *Config) bool { return c.CLI.SessionID == "abc" }},
		{"cli.unknown", "x", true, nil},
		{"nosuch.key", "x", true, nil},
		{"toolong.a.b", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply", tt.key, tt.value)
			}
		})
	}
}
