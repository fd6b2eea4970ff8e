// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keymaster.
//
// go-keymaster is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package config loads the proxy configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete proxy configuration.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// TransportConfig selects the secure channel endpoint.
type TransportConfig struct {
	// Device is the Trusty IPC device node.
	Device string `yaml:"device"`

	// Port is the keymaster service port name.
	Port string `yaml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			Device: "/dev/trusty-ipc-dev0",
			Port:   "com.android.trusty.keymaster",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9464",
		},
	}
}

// Load reads a YAML configuration file, applying defaults for any field
// left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the proxy cannot run with.
func (c *Config) Validate() error {
	if c.Transport.Device == "" {
		return fmt.Errorf("config: transport.device must not be empty")
	}
	if c.Transport.Port == "" {
		return fmt.Errorf("config: transport.port must not be empty")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging level %q", c.Logging.Level)
	}
	return nil
}
