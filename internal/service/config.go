package service

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"tracelift/internal/flatcode"
)

// Config is the service manifest, loaded from tracelift.toml.
type Config struct {
	Listen          string   `toml:"listen"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	GasCheck        bool     `toml:"gas_check"`
	MaxInstructions int      `toml:"max_instructions"`
	MaxWords        int      `toml:"max_words"`
}

// DefaultConfig returns the configuration used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Listen:   "127.0.0.1:8080",
		GasCheck: true,
	}
}

// LoadConfig reads a manifest from path. A missing file yields the default
// configuration; a present but unparsable one is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultConfig().Listen
	}
	return cfg, nil
}

// FlatConfig converts the manifest limits into generator configuration.
func (c Config) FlatConfig() flatcode.Config {
	return flatcode.Config{
		GasCheck:        c.GasCheck,
		MaxInstructions: c.MaxInstructions,
		MaxWords:        c.MaxWords,
	}
}
