// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package config loads host configuration: defaults, then an optional
// YAML file, then command-line flags, later layers winning.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the host configuration.
type Config struct {
	Plugins PluginsConfig `koanf:"plugins"`
	Log     LogConfig     `koanf:"log"`
	Console ConsoleConfig `koanf:"console"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// PluginsConfig controls startup plugin discovery.
type PluginsConfig struct {
	// Dir is scanned for plugin directories at startup. Empty disables
	// discovery; plugins are then loaded interactively with `load`.
	Dir string `koanf:"dir"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "text" or "json"
	Level  string `koanf:"level"`  // debug, info, warn, error
}

// ConsoleConfig controls the interactive front end.
type ConsoleConfig struct {
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
}

// MetricsConfig controls the optional /metrics listener.
type MetricsConfig struct {
	// Addr enables the prometheus endpoint when non-empty,
	// e.g. "127.0.0.1:9185".
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Console: ConsoleConfig{
			Prompt: "> ",
		},
	}
}

// Load layers the optional YAML file at path and the given flag set over
// the defaults. A missing file is only an error when path was set
// explicitly; flags may be nil.
func Load(path string, explicit bool, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) || explicit {
				return Config{}, fmt.Errorf("config file %s: %w", path, err)
			}
		} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Unset flags carry empty defaults through the posflag provider;
	// restore the built-in values for them.
	defaults := Default()
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Console.Prompt == "" {
		cfg.Console.Prompt = defaults.Console.Prompt
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration constraints.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	return nil
}
