package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := ""
	if flags != nil {
		configPath = flags.ConfigPath
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if flags != nil {
		flags.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the generator or preview cannot work with.
func (c *Config) Validate() error {
	if c.Terrain.TileScale <= 0 {
		return fmt.Errorf("terrain.tile_scale must be positive, got %g", c.Terrain.TileScale)
	}
	if c.Terrain.HeightScale <= 0 {
		return fmt.Errorf("terrain.height_scale must be positive, got %g", c.Terrain.HeightScale)
	}
	if c.Preview.Size <= 0 || c.Preview.Size > 8192 {
		return fmt.Errorf("preview.size must be in 1..8192, got %d", c.Preview.Size)
	}
	if c.Preview.Supersample < 1 || c.Preview.Supersample > 8 {
		return fmt.Errorf("preview.supersample must be in 1..8, got %d", c.Preview.Supersample)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./parkterrain.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "ParkTerrain")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ParkTerrain")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "parkterrain")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "parkterrain")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
