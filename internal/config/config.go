// Package config loads lovetrack settings from an optional YAML file and
// LOVETRACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/pfrederiksen/lovetrack/internal/kv"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/refresh"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "LOVETRACK_CONFIG"

// Config holds the runtime settings
type Config struct {
	DataDir         string        `yaml:"data_dir" env:"LOVETRACK_DATA_DIR" env-default:"~/.local/share/lovetrack" env-description:"Directory holding saved data"`
	Backend         string        `yaml:"backend" env:"LOVETRACK_BACKEND" env-default:"file" env-description:"Storage backend: file, bolt or sqlite"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"LOVETRACK_REFRESH_INTERVAL" env-default:"1m" env-description:"How often watch recomputes the duration"`
	LogLevel        string        `yaml:"log_level" env:"LOVETRACK_LOG_LEVEL" env-default:"warn" env-description:"debug, info, warn or error"`
	UpcomingLimit   int           `yaml:"upcoming_limit" env:"LOVETRACK_UPCOMING_LIMIT" env-default:"5" env-description:"Upcoming events shown by status"`
}

// DefaultPath returns ~/.config/lovetrack/config.yaml, or "" if the home directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lovetrack", "config.yaml")
}

// Load reads the configuration. An explicit path must exist. With no path, LOVETRACK_CONFIG
// is consulted and then DefaultPath; a missing default file just means environment-only
// configuration. Environment variables always override file values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}

	var cfg Config

	useFile := path != ""
	if useFile {
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) || explicit {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
			useFile = false
		}
	}

	if useFile {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("data_dir is required"))
	}
	if _, err := kv.ParseBackend(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if c.RefreshInterval < refresh.MinInterval {
		errs = append(errs, fmt.Errorf("refresh_interval must be at least %s, got %s", refresh.MinInterval, c.RefreshInterval))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.UpcomingLimit < 0 {
		errs = append(errs, fmt.Errorf("upcoming_limit must not be negative, got %d", c.UpcomingLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// StorageBackend returns the parsed backend. Only valid after Validate.
func (c *Config) StorageBackend() kv.Backend {
	b, _ := kv.ParseBackend(c.Backend)
	return b
}

// Level returns the parsed log level. Only valid after Validate.
func (c *Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// Usage describes the supported environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"DataDir: %s\n"+
			"Backend: %s\n"+
			"RefreshInterval: %s\n"+
			"LogLevel: %s\n"+
			"UpcomingLimit: %d\n",
		c.DataDir,
		c.Backend,
		c.RefreshInterval,
		c.LogLevel,
		c.UpcomingLimit,
	)
}
