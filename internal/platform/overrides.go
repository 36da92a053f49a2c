package platform

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOverrides merges display metadata overrides from a YAML file into
// the registry. Only known platform ids are accepted; the file may
// override any Config field. Intended to be called once during startup,
// before the registry is read concurrently.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read platform overrides: %w", err)
	}

	var overrides map[string]Config
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse platform overrides: %w", err)
	}

	for id, cfg := range overrides {
		if !Known(id) {
			slog.Warn("Ignoring override for unknown platform", "platform", id)
			continue
		}
		merged := supported[id]
		if cfg.Name != "" {
			merged.Name = cfg.Name
		}
		if cfg.Icon != "" {
			merged.Icon = cfg.Icon
		}
		if cfg.Color != "" {
			merged.Color = cfg.Color
		}
		if cfg.Priority != 0 {
			merged.Priority = cfg.Priority
		}
		supported[id] = merged
		slog.Debug("Applied platform override", "platform", id)
	}

	return nil
}
