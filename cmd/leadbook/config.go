package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the business directory used when none is configured.
const DefaultAPIURL = "https://business-scraper-server.onrender.com/api"

// KeyringService groups leadbook secrets in the OS keychain.
const KeyringService = "leadbook"

// Config holds settings read from the YAML config file.
type Config struct {
	DBPath      string  `yaml:"db_path"`
	PostgresDSN string  `yaml:"postgres_dsn"`
	APIURL      string  `yaml:"api_url"`
	SearchRPS   float64 `yaml:"search_rps"`
	Timezone    string  `yaml:"timezone"`

	// Object storage for s3:// exports. Credentials come from the default
	// AWS chain.
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`

	// PostgresKeyring names the keychain account holding the Postgres DSN.
	// It is consulted only when PostgresDSN is empty.
	PostgresKeyring string `yaml:"postgres_keyring"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		DBPath:    defaultDBPath(),
		APIURL:    DefaultAPIURL,
		SearchRPS: 1,
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from LEADBOOK_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LEADBOOK_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("LEADBOOK_POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := getenv("LEADBOOK_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := getenv("LEADBOOK_S3_REGION"); v != "" {
		c.S3Region = v
	}
	if v := getenv("LEADBOOK_S3_ENDPOINT"); v != "" {
		c.S3Endpoint = v
	}
	if v := getenv("LEADBOOK_POSTGRES_KEYRING"); v != "" {
		c.PostgresKeyring = v
	}
}

// ResolvePostgresDSN reads PostgresDSN from the OS keychain when it is
// unset and PostgresKeyring names an account.
func (c *Config) ResolvePostgresDSN() error {
	if c.PostgresDSN != "" || c.PostgresKeyring == "" {
		return nil
	}
	dsn, err := keyring.Get(KeyringService, c.PostgresKeyring)
	if err != nil {
		return fmt.Errorf("read postgres DSN from keychain account %q: %w", c.PostgresKeyring, err)
	}
	c.PostgresDSN = dsn
	return nil
}

// Location returns the time zone for exported timestamps. An empty
// Timezone means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func defaultConfigPath() string {
	if path := os.Getenv("LEADBOOK_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".leadbook", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leadbook.db"
	}
	dir := filepath.Join(home, ".leadbook")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "leadbook.db")
}
