// Package config handles the global refcheck configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the configuration stored in ~/.config/refcheck/config.yml.
// Every field is optional; the zero value is a working configuration.
type Config struct {
	S2APIKey    string `yaml:"s2_api_key,omitempty"`
	HistoryPath string `yaml:"history_path,omitempty"`

	// AuthorOverlapThreshold overrides the deduplication engine's
	// shared-author-token cutoff when positive.
	AuthorOverlapThreshold float64 `yaml:"author_overlap_threshold,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "refcheck"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// HistoryFile is the default history database file name.
	HistoryFile = "history.db"
)

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/refcheck/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration. A missing file yields an empty
// config, not an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a configuration file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.HistoryPath = ExpandTilde(cfg.HistoryPath)
	return &cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// HistoryDBPath returns the configured history database path, or the
// default under XDG_DATA_HOME (~/.local/share/refcheck/history.db).
func (c *Config) HistoryDBPath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return HistoryFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDir, HistoryFile)
}

// ExpandTilde expands a leading ~/ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
