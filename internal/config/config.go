// Package config handles configuration management for retail-etl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
//
// The config file doubles as the credentials file of the original project:
// it carries connection details for the source and target databases, the
// store API endpoints and key, and the locations of the PDF, CSV and JSON
// documents.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-etl.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Source is the read-only database the legacy tables are extracted from.
	Source DBConfig `mapstructure:"source"`

	// Target is the local database the star schema is loaded into.
	Target DBConfig `mapstructure:"target"`

	// API holds the store API endpoints and key.
	API APIConfig `mapstructure:"api"`

	// PDF holds the location of the card details document.
	PDF PDFConfig `mapstructure:"pdf"`

	// S3 holds the location of the products file on object storage.
	S3 S3Config `mapstructure:"s3"`

	// JSON holds the location of the date events document.
	JSON JSONConfig `mapstructure:"json"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// DBConfig holds connection details for one PostgreSQL database.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// URL builds a postgres connection string from the credentials.
func (d DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password),
		d.Host, d.Port, d.Database)
}

// APIConfig holds the store API endpoints and key. StoreDetailsURL contains
// a {store_no} placeholder replaced with the store index per request.
type APIConfig struct {
	NumberStoresURL string `mapstructure:"number_stores_url"`
	StoreDetailsURL string `mapstructure:"store_details_url"`
	Key             string `mapstructure:"key"`
}

// PDFConfig holds the location of the card details PDF.
type PDFConfig struct {
	URL string `mapstructure:"url"`
}

// S3Config holds the object storage location of the products CSV.
// EndpointURL is optional and supports MinIO-style deployments.
type S3Config struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Key             string `mapstructure:"key"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	EndpointURL     string `mapstructure:"endpoint_url"`
}

// JSONConfig holds the location of the date events JSON document.
type JSONConfig struct {
	URL string `mapstructure:"url"`
}

// SeedConfig holds configuration for source data generation.
type SeedConfig struct {
	// Users is the number of legacy user rows to generate.
	Users int `mapstructure:"users"`

	// Orders is the number of order rows to generate.
	Orders int `mapstructure:"orders"`

	// CorruptionRate is the share of rows written with deliberately
	// invalid values (0.0 - 1.0).
	CorruptionRate float64 `mapstructure:"corruption_rate"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Source:   DBConfig{Port: 5432},
		Target:   DBConfig{Port: 5432},
		Seed: SeedConfig{
			Users:          15000,
			Orders:         120000,
			CorruptionRate: 0.02,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-etl.yaml
// 3. ~/.config/retail-etl/retail-etl.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retail-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

func (d DBConfig) validate(name string) error {
	if d.Host == "" {
		return fmt.Errorf("%s database host is required", name)
	}
	if d.User == "" {
		return fmt.Errorf("%s database user is required", name)
	}
	if d.Database == "" {
		return fmt.Errorf("%s database name is required", name)
	}
	return nil
}

// ValidateTarget checks configuration required to reach the target database.
func (c *Config) ValidateTarget() error {
	return c.Target.validate("target")
}

// ValidateSource checks configuration required to reach the source database.
func (c *Config) ValidateSource() error {
	return c.Source.validate("source")
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	if err := c.ValidateTarget(); err != nil {
		return err
	}
	if c.API.NumberStoresURL == "" || c.API.StoreDetailsURL == "" {
		return fmt.Errorf("api endpoints are required")
	}
	if c.PDF.URL == "" {
		return fmt.Errorf("pdf url is required")
	}
	if c.S3.Bucket == "" || c.S3.Key == "" {
		return fmt.Errorf("s3 bucket and key are required")
	}
	if c.JSON.URL == "" {
		return fmt.Errorf("json url is required")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	if c.Seed.Users < 1 {
		return fmt.Errorf("seed users must be at least 1")
	}
	if c.Seed.Orders < 1 {
		return fmt.Errorf("seed orders must be at least 1")
	}
	if c.Seed.CorruptionRate < 0 || c.Seed.CorruptionRate > 1 {
		return fmt.Errorf("corruption_rate must be between 0 and 1")
	}
	return nil
}
