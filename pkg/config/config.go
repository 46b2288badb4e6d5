package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// API
	API struct {
		Port           int      `toml:"port"`
		Host           string   `toml:"host"`
		AllowedOrigins []string `toml:"allowed_origins"` // WebSocket origins; empty allows any
	} `toml:"api"`

	// Scanner
	Scanner struct {
		CooldownMS int `toml:"cooldown_ms"` // Identical repeat decodes are suppressed for this long
	} `toml:"scanner"`

	// Webhook
	Webhook struct {
		DefaultURL string `toml:"default_url"` // Webhook URL new sessions start with (empty = disabled)
		TimeoutMS  int    `toml:"timeout_ms"`
	} `toml:"webhook"`

	// Decoder
	Decoder struct {
		FPS       int `toml:"fps"`
		BoxWidth  int `toml:"box_width"`
		BoxHeight int `toml:"box_height"`
	} `toml:"decoder"`

	// CLI
	CLI struct {
		BaseURL   string `toml:"base_url"`
		SessionID string `toml:"session_id"` // Session the CLI works against, set by "session new"
		Timeout   int    `toml:"timeout"`    // HTTP timeout for API calls in seconds
	} `toml:"cli"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.API.Port = 8080
	cfg.API.Host = "0.0.0.0"
	cfg.Scanner.CooldownMS = 3000
	cfg.Webhook.DefaultURL = ""
	cfg.Webhook.TimeoutMS = 10000
	cfg.Decoder.FPS = 10
	cfg.Decoder.BoxWidth = 250
	cfg.Decoder.BoxHeight = 250
	cfg.CLI.BaseURL = "http://localhost:8080"
	cfg.CLI.Timeout = 30
	return cfg
}

// Cooldown returns the de-duplication window
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Scanner.CooldownMS) * time.Millisecond
}

// WebhookTimeout returns the per-delivery bound
func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.Webhook.TimeoutMS) * time.Millisecond
}

// ConfigPath returns the path to the config file. QRSCAN_CONFIG overrides
// the default location.
func ConfigPath() (string, error) {
	if p := os.Getenv("QRSCAN_CONFIG"); p != "" {
		return expandHome(p)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "qrscan")
	return filepath.Join(configDir, "config.toml"), nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return strings.Replace(p, "~", homeDir, 1), nil
}

// Load reads configuration from ~/.config/qrscan/config.toml
// Creates the file with defaults if it doesn't exist
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// Parse decodes TOML and fills missing values from the defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge with defaults for any missing values
	defaultCfg := DefaultConfig()
	if cfg.API.Port == 0 {
		cfg.API.Port = defaultCfg.API.Port
	}
	if cfg.API.Host == "" {
		cfg.API.Host = defaultCfg.API.Host
	}
	if cfg.Scanner.CooldownMS == 0 {
		cfg.Scanner.CooldownMS = defaultCfg.Scanner.CooldownMS
	}
	if cfg.Webhook.TimeoutMS == 0 {
		cfg.Webhook.TimeoutMS = defaultCfg.Webhook.TimeoutMS
	}
	if cfg.Decoder.FPS == 0 {
		cfg.Decoder.FPS = defaultCfg.Decoder.FPS
	}
	if cfg.Decoder.BoxWidth == 0 {
		cfg.Decoder.BoxWidth = defaultCfg.Decoder.BoxWidth
	}
	if cfg.Decoder.BoxHeight == 0 {
		cfg.Decoder.BoxHeight = defaultCfg.Decoder.BoxHeight
	}
	if cfg.CLI.BaseURL == "" {
		cfg.CLI.BaseURL = defaultCfg.CLI.BaseURL
	}
	if cfg.CLI.Timeout == 0 {
		cfg.CLI.Timeout = defaultCfg.CLI.Timeout
	}

	return &cfg, nil
}

// Override with environment variables if set (useful for Docker)
func applyEnv(cfg *Config) {
	if port := os.Getenv("QRSCAN_API_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.API.Port = p
		}
	}
	if url, ok := os.LookupEnv("QRSCAN_WEBHOOK_URL"); ok {
		cfg.Webhook.DefaultURL = url
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		cfg.CLI.BaseURL = baseURL
	}
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Serialise writers (API server and CLI may share the file)
	lock := flock.New(configPath + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer lock.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Set assigns a value by "section.key" path, the form used by
// "config set section.key=value"
func (c *Config) Set(keyPath, value string) error {
	parts := strings.Split(keyPath, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}
	section, key := parts[0], parts[1]

	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value: %s", key, value)
		}
		return n, nil
	}

	switch section {
	case "api":
		switch key {
		case "host":
			c.API.Host = value
		case "port":
			port, err := atoi()
			if err != nil {
				return err
			}
			c.API.Port = port
		case "allowed_origins":
			c.API.AllowedOrigins = nil
			for _, origin := range strings.Split(value, ",") {
				if origin = strings.TrimSpace(origin); origin != "" {
					c.API.AllowedOrigins = append(c.API.AllowedOrigins, origin)
				}
			}
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "scanner":
		switch key {
		case "cooldown_ms":
			ms, err := atoi()
			if err != nil {
				return err
			}
			c.Scanner.CooldownMS = ms
		default:
			return fmt.Errorf("unknown scanner key: %s", key)
		}
	case "webhook":
		switch key {
		case "default_url":
			c.Webhook.DefaultURL = value
		case "timeout_ms":
			ms, err := atoi()
			if err != nil {
				return err
			}
			c.Webhook.TimeoutMS = ms
		default:
			return fmt.Errorf("unknown webhook key: %s", key)
		}
	case "decoder":
		n, err := atoi()
		if err != nil {
			return err
		}
		switch key {
		case "fps":
			c.Decoder.FPS = n
		case "box_width":
			c.Decoder.BoxWidth = n
		case "box_height":
			c.Decoder.BoxHeight = n
		default:
			return fmt.Errorf("unknown decoder key: %s", key)
		}
	case "cli":
		switch key {
		case "base_url":
			c.CLI.BaseURL = value
		case "session_id":
			c.CLI.SessionID = value
		case "timeout":
			timeout, err := atoi()
			if err != nil {
				return err
			}
			c.CLI.Timeout = timeout
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return nil
}
