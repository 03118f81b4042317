// Copyright (c) 2025 Anil Aygun
// SPDX-License-Identifier: MIT

// Package config loads application configuration from a YAML file and
// FLASHCARDS_* environment variables, with env taking precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`  // root for the KV database and asset store
	Storage  string `mapstructure:"storage"`   // "sqlite" or "memory"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error
}

// AssetDir is the asset store directory under the data dir.
func (c *Config) AssetDir() string {
	return filepath.Join(c.DataDir, "images")
}

// DBPath is the KV database path under the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "flashcards.db")
}

// Load reads configuration from ~/.flashcards/config.yaml (when present) and
// the FLASHCARDS_* environment.
func Load() (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}

	v.SetDefault("data_dir", filepath.Join(home, ".flashcards"))
	v.SetDefault("storage", "sqlite")
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".flashcards"))

	v.SetEnvPrefix("FLASHCARDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SetupLogger configures the default slog logger from the configured level.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
