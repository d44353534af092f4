// Package config loads poolboot run settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/poolboot/internal/logging"
)

// Config is the resolved run configuration.
type Config struct {
	Workers         int
	PinThreads      bool
	SpawnRate       float64
	SpawnBurst      int
	LogLevel        string
	LogJSON         bool
	Jobs            int
	ShutdownTimeout time.Duration
	Metrics         bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Workers:         runtime.NumCPU(),
		LogLevel:        "info",
		Jobs:            1 << 16,
		ShutdownTimeout: 5 * time.Second,
	}
}

// FileConfig mirrors the on-disk layout. Zero values leave the default in
// place.
type FileConfig struct {
	Workers         int     `yaml:"workers" json:"workers"`
	PinThreads      *bool   `yaml:"pin_threads" json:"pin_threads"`
	SpawnRate       float64 `yaml:"spawn_rate" json:"spawn_rate"`
	SpawnBurst      int     `yaml:"spawn_burst" json:"spawn_burst"`
	LogLevel        string  `yaml:"log_level" json:"log_level"`
	LogJSON         *bool   `yaml:"log_json" json:"log_json"`
	Jobs            int     `yaml:"jobs" json:"jobs"`
	ShutdownTimeout string  `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	Metrics         *bool   `yaml:"metrics" json:"metrics"`
}

// LoadFile reads a .yaml, .yml or .json file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &fc, nil
}

// Apply overlays the file's settings on base.
func (f *FileConfig) Apply(base Config) (Config, error) {
	cfg := base

	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}
	if f.PinThreads != nil {
		cfg.PinThreads = *f.PinThreads
	}
	if f.SpawnRate != 0 {
		cfg.SpawnRate = f.SpawnRate
	}
	if f.SpawnBurst != 0 {
		cfg.SpawnBurst = f.SpawnBurst
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.LogJSON != nil {
		cfg.LogJSON = *f.LogJSON
	}
	if f.Jobs != 0 {
		cfg.Jobs = f.Jobs
	}
	if f.ShutdownTimeout != "" {
		d, err := time.ParseDuration(f.ShutdownTimeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if f.Metrics != nil {
		cfg.Metrics = *f.Metrics
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.SpawnRate < 0 {
		errs = append(errs, fmt.Errorf("spawn_rate must not be negative, got %g", c.SpawnRate))
	}
	if c.SpawnRate > 0 && c.SpawnBurst <= 0 {
		errs = append(errs, errors.New("spawn_burst must be positive when spawn_rate is set"))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err))
	}

	return errors.Join(errs...)
}
