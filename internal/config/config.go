// Package config loads service configuration: defaults, then an optional
// YAML file, then environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`
	DataDir   string `yaml:"data_dir"`
	RoutePath string `yaml:"route_path"`
	JWTSecret string `yaml:"jwt_secret"`
	Seed      bool   `yaml:"seed"`
	LogLevel  string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Addr:      ":8080",
		DataDir:   "data",
		RoutePath: "/api/data",
		Seed:      true,
		LogLevel:  "info",
	}
}

// Load reads path (if non-empty and present) over the defaults, then applies
// PORTFOLIO_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.Addr = getEnv("PORTFOLIO_ADDR", cfg.Addr)
	cfg.DataDir = getEnv("PORTFOLIO_DATA_DIR", cfg.DataDir)
	cfg.RoutePath = getEnv("PORTFOLIO_ROUTE_PATH", cfg.RoutePath)
	cfg.JWTSecret = getEnv("PORTFOLIO_JWT_SECRET", cfg.JWTSecret)
	cfg.LogLevel = getEnv("PORTFOLIO_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("PORTFOLIO_SEED"); v != "" {
		cfg.Seed = strings.EqualFold(v, "true") || v == "1"
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if !strings.HasPrefix(c.RoutePath, "/") {
		return fmt.Errorf("route_path must start with /")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
