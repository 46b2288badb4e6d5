package cli

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig displays the current configuration
func (a *App) ShowConfig() error {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "webhook.default_url=https://...")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	if err := a.cfg.Set(parts[0], parts[1]); err != nil {
		return err
	}
	if err := a.save(a.cfg); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Configuration updated successfully")
	return nil
}
