package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"grand-staff/notation"
	"grand-staff/render"
)

// InputConfig controls which MIDI input the display listens to
type InputConfig struct {
	// Port matching any of these is connected first (case-insensitive substring)
	Preferred []string `yaml:"preferred,omitempty"`
	// Ports never auto-connected (virtual/system ports)
	Excluded []string `yaml:"excluded,omitempty"`
	// Channel filter, 0 = all channels
	Channel int `yaml:"channel,omitempty"`
}

// ServerConfig stores the HTTP renderer settings
type ServerConfig struct {
	Addr        string   `yaml:"addr,omitempty"`
	CORSOrigins []string `yaml:"corsOrigins,omitempty"`
}

// UIConfig stores TUI preferences
type UIConfig struct {
	Palette    string `yaml:"palette,omitempty"`
	BaseOctave int    `yaml:"baseOctave"`
}

// Config is the main configuration structure
type Config struct {
	Spelling notation.SpellingMode `yaml:"spelling"`
	Debug    bool                  `yaml:"debug,omitempty"`
	Input    InputConfig           `yaml:"input,omitempty"`
	Server   ServerConfig          `yaml:"server,omitempty"`
	UI       UIConfig              `yaml:"ui"`
	Geometry render.Geometry       `yaml:"geometry,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Spelling: notation.AllSharps,
		Input: InputConfig{
			Excluded: []string{"Midi Through", "Through Port", "Dummy"},
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8088",
			CORSOrigins: []string{"*"},
		},
		UI: UIConfig{
			BaseOctave: 4,
		},
		Geometry: render.DefaultGeometry(),
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "grand-staff"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults. A missing file is not
// an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
