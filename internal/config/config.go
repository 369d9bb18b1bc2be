// Package config loads the betteryou YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/betteryou/internal/constants"
	"github.com/julianstephens/betteryou/internal/utils"
)

// Config mirrors config.yaml. Command-line flags take precedence over it.
type Config struct {
	// Database is a SQLite file path or a postgres:// connection string
	// without an embedded password.
	Database string `yaml:"database"`
	// User is the profile every command acts on.
	User     string `yaml:"user"`
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level,omitempty"`
	// Notifications toggles tray notifications on achievement unlocks.
	// Unset leaves the stored setting alone.
	Notifications *bool `yaml:"notifications,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: constants.DefaultDBPath,
		User:     constants.DefaultUserID,
		Timezone: constants.DefaultTimezone,
	}
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", expanded, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Overrides holds command-line values; empty fields are ignored.
type Overrides struct {
	Database string
	User     string
	Timezone string
	Debug    bool
}

// Merge applies non-zero overrides on top of c.
func (c *Config) Merge(o Overrides) {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.User != "" {
		c.User = o.User
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.Debug {
		c.Debug = true
	}
}

// ConfigDir is the directory holding the config file, logs and backups.
func ConfigDir(path string) (string, error) {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Dir(expanded), nil
}
