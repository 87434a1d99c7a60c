// Package common provides shared utilities for Divvy
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Divvy
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds cache storage configuration.
type StorageConfig struct {
	Path string `toml:"path"` // BadgerHold directory for directory + snapshot caches
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Provider ProviderConfig `toml:"provider"`
	Registry RegistryConfig `toml:"registry"`
	Scrape   ScrapeConfig   `toml:"scrape"`
}

// ProviderConfig holds primary market-data provider configuration
type ProviderConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ProviderConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RegistryConfig holds SEC EDGAR registry configuration.
// The registry requires a descriptive User-Agent and fair-use pacing.
type RegistryConfig struct {
	BaseURL      string `toml:"base_url"`
	DirectoryURL string `toml:"directory_url"`
	UserAgent    string `toml:"user_agent"`
	RequestDelay string `toml:"request_delay"`
	Timeout      string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *RegistryConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetRequestDelay parses and returns the politeness delay applied before
// each companyfacts request.
func (c *RegistryConfig) GetRequestDelay() time.Duration {
	d, err := time.ParseDuration(c.RequestDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// ScrapeConfig holds secondary web-source configuration
type ScrapeConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ScrapeConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/cache",
		},
		Clients: ClientsConfig{
			Provider: ProviderConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Registry: RegistryConfig{
				BaseURL:      "https://data.sec.gov",
				DirectoryURL: "https://www.sec.gov/files/company_tickers.json",
				UserAgent:    "divvy-analyzer admin@divvy.local",
				RequestDelay: "500ms",
				Timeout:      "15s",
			},
			Scrape: ScrapeConfig{
				BaseURL:   "https://www.macrotrends.net",
				RateLimit: 2,
				Timeout:   "20s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DIVVY_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DIVVY_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DIVVY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DIVVY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("DIVVY_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if ua := os.Getenv("DIVVY_REGISTRY_USER_AGENT"); ua != "" {
		config.Clients.Registry.UserAgent = ua
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
