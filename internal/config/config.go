// Package config loads the hearthshare configuration: a YAML file with
// environment-variable overrides, resolved once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath    string `yaml:"db_path"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Timezone  string `yaml:"timezone"`
	// ProjectionDays is how far ahead projected assignments look when
	// biasing rotation-order tie-breaking.
	ProjectionDays int `yaml:"projection_days"`
}

func defaults() Config {
	return Config{
		DBPath:         "hearthshare.db",
		LogLevel:       "info",
		LogFormat:      "text",
		Timezone:       "Local",
		ProjectionDays: 7,
	}
}

// Load reads the config file at path, if it exists, then applies
// HEARTHSHARE_* environment overrides. A missing file is not an error;
// a malformed one is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("HEARTHSHARE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("HEARTHSHARE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HEARTHSHARE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HEARTHSHARE_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("HEARTHSHARE_PROJECTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid HEARTHSHARE_PROJECTION_DAYS %q", v)
		}
		cfg.ProjectionDays = n
	}

	if cfg.ProjectionDays < 1 {
		cfg.ProjectionDays = 1
	}
	return cfg, nil
}
