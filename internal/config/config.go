// Package config loads the YAML configuration consumed by the
// scopedpool-demo binaries. It is deliberately not imported by the
// pool package itself: a thread-pool library should never impose a
// configuration format on its callers.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the top-level demo configuration, loaded from YAML.
type Config struct {
	Pool    PoolConfig    `yaml:"pool" validate:"required"`
	Logging LoggingConfig `yaml:"logging"`
}

// PoolConfig controls how the demo binaries construct a pool.Pool.
type PoolConfig struct {
	// Size is the number of workers started eagerly.
	Size int `yaml:"size" validate:"gte=0"`

	// MetricsAddr, if non-empty, is the address the "serve-metrics"
	// command listens on for Prometheus scrapes (e.g. ":9090").
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// LoggingConfig holds the configured log level. Load validates it; the
// demo binaries do not apply it to their slog handler, which stays at
// slog's default level.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Pool: PoolConfig{
			Size:        4,
			MetricsAddr: ":9090",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads and validates a Config from path. An empty path returns
// Default() without touching the filesystem.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}
