package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store kinds accepted by --store.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all runtime configuration for the medibill binary.
type Config struct {
	DSN             string
	ListenAddr      string
	StoreKind       string // "postgres" or "memory"
	LogFormat       string // "text" or "json"
	IOTimeout       time.Duration
	ShutdownTimeout time.Duration
}

// yamlConfig is the on-disk YAML structure. Durations are strings in
// time.ParseDuration form ("30s", "1m").
type yamlConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	Store           string `yaml:"store"`
	IOTimeout       string `yaml:"io_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoadFromFile reads a YAML config file and merges its values into
// Config. File values fill only fields not already set by flags.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.ListenAddr == "" {
		c.ListenAddr = yc.ListenAddr
	}
	if c.StoreKind == "" {
		c.StoreKind = yc.Store
	}
	if c.IOTimeout == 0 && yc.IOTimeout != "" {
		d, err := time.ParseDuration(yc.IOTimeout)
		if err != nil {
			return fmt.Errorf("parse io_timeout: %w", err)
		}
		c.IOTimeout = d
	}
	if c.ShutdownTimeout == 0 && yc.ShutdownTimeout != "" {
		d, err := time.ParseDuration(yc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

// ApplyDefaults fills unset fields with serving defaults.
func (c *Config) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":5000"
	}
	if c.StoreKind == "" {
		c.StoreKind = StorePostgres
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.IOTimeout == 0 {
		c.IOTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.StoreKind != StorePostgres && c.StoreKind != StoreMemory {
		return fmt.Errorf("unknown store kind %q (want %s or %s)", c.StoreKind, StorePostgres, StoreMemory)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ValidateWithDSN additionally requires a DSN, for commands that talk to
// Postgres.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.StoreKind == StorePostgres && c.DSN == "" {
		return fmt.Errorf("--dsn or MEDIBILL_DB_URL is required")
	}
	return nil
}
