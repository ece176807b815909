package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Catalog struct {
		SQLitePath  string `yaml:"sqlite_path"`
		RefreshCron string `yaml:"refresh_cron"`
		ListedURL   string `yaml:"listed_url"`
		OTCURL      string `yaml:"otc_url"`
	} `yaml:"catalog"`
	Provider struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"provider"`
	Analysis struct {
		DefaultLimit int `yaml:"default_limit"`
	} `yaml:"analysis"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Catalog.SQLitePath = v
	}
	if v := os.Getenv("CATALOG_REFRESH_CRON"); v != "" {
		cfg.Catalog.RefreshCron = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.DefaultLimit = n
		}
	}

	// Defaults
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Catalog.SQLitePath == "" {
		cfg.Catalog.SQLitePath = "data/catalog.db"
	}
	if cfg.Catalog.RefreshCron == "" {
		// Daily at 06:00 UTC (14:00 Taipei, after the trading session).
		cfg.Catalog.RefreshCron = "0 0 6 * * *"
	}
	if cfg.Analysis.DefaultLimit == 0 {
		cfg.Analysis.DefaultLimit = 50
	}

	return cfg, nil
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if c.Catalog.RefreshCron == "" {
		return fmt.Errorf("catalog.refresh_cron is required")
	}
	if c.Analysis.DefaultLimit < 0 {
		return fmt.Errorf("analysis.default_limit must not be negative")
	}
	return nil
}
