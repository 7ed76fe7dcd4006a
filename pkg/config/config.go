// Package config loads the explorer configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full explorer configuration.
type Config struct {
	// ServiceURL is the base URL of the GraphRAG indexing service.
	ServiceURL string `yaml:"service_url" validate:"required,url"`

	// PollInterval is the fixed interval between indexing-status polls.
	PollInterval time.Duration `yaml:"poll_interval" validate:"min=500ms"`

	// CacheDir holds local payload/position snapshots.
	CacheDir string `yaml:"cache_dir" validate:"required"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Layout LayoutConfig `yaml:"layout"`
}

// LayoutConfig bounds the layout canvas and iteration budget.
type LayoutConfig struct {
	Width      float64 `yaml:"width" validate:"gt=0"`
	Height     float64 `yaml:"height" validate:"gt=0"`
	Iterations int     `yaml:"iterations" validate:"gt=0,lte=1000"`
}

// UnmarshalYAML decodes the config, accepting duration strings like "2s" for
// poll_interval.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		ServiceURL   string       `yaml:"service_url"`
		PollInterval string       `yaml:"poll_interval"`
		CacheDir     string       `yaml:"cache_dir"`
		LogLevel     string       `yaml:"log_level"`
		Layout       LayoutConfig `yaml:"layout"`
	}

	raw := rawConfig{
		ServiceURL: c.ServiceURL,
		CacheDir:   c.CacheDir,
		LogLevel:   c.LogLevel,
		Layout:     c.Layout,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.ServiceURL = raw.ServiceURL
	c.CacheDir = raw.CacheDir
	c.LogLevel = raw.LogLevel
	c.Layout = raw.Layout
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll_interval: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ServiceURL:   "http://localhost:8000",
		PollInterval: 2 * time.Second,
		CacheDir:     defaultCacheDir(),
		LogLevel:     "info",
		Layout: LayoutConfig{
			Width:      1600,
			Height:     1200,
			Iterations: 100,
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/graphlens"
	}
	return ".graphlens-cache"
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GRAPHLENS_SERVICE_URL"); v != "" {
		cfg.ServiceURL = v
	}
	if v := os.Getenv("GRAPHLENS_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("GRAPHLENS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GRAPHLENS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = d
		}
	}
}
