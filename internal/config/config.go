// Package config provides configuration loading and management for the IssueBridge server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variables consumed by the server.
const EnvPrefix = "ISSUEBRIDGE"

// envDatabasePassword is the environment variable holding the database password.
const envDatabasePassword = EnvPrefix + "_DATABASE_PASSWORD"

const (
	defaultAddress       = ":8080"
	defaultSyncInterval  = 10 * time.Minute
	defaultHTTPTimeout   = 15 * time.Second
	defaultOverlapWindow = 2 * time.Minute
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database *DatabaseConfig `yaml:"database"`
	Sync     SyncConfig      `yaml:"sync,omitempty"`
}

// ServerConfig defines the HTTP server settings
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080"
	Address string `yaml:"address,omitempty"`

	// Auth enables HTTP Basic auth for every route except /health
	Auth *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig defines optional HTTP Basic auth protection
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// DatabaseConfig defines the PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslMode,omitempty"`

	// Password may be provided inline, via PasswordFile, or via the
	// ISSUEBRIDGE_DATABASE_PASSWORD environment variable.
	Password     string `yaml:"password,omitempty"`
	PasswordFile string `yaml:"passwordFile,omitempty"`

	MaxOpenConns    int    `yaml:"maxOpenConns,omitempty"`
	MaxIdleConns    int    `yaml:"maxIdleConns,omitempty"`
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// SyncConfig defines defaults for the sync engine
type SyncConfig struct {
	// DefaultInterval is used for pairs that do not set their own interval
	DefaultInterval string `yaml:"defaultInterval,omitempty"`

	// RequestTimeout bounds each individual GitLab API call
	RequestTimeout string `yaml:"requestTimeout,omitempty"`

	// OverlapWindow is subtracted from the last cycle time when listing
	// updated issues, to tolerate clock skew between instances
	OverlapWindow string `yaml:"overlapWindow,omitempty"`
}

// GetAddress returns the configured listen address or the default
func (c *Config) GetAddress() string {
	if c.Server.Address == "" {
		return defaultAddress
	}
	return c.Server.Address
}

// GetDefaultInterval returns the default pair sync interval
func (c *Config) GetDefaultInterval() time.Duration {
	return parseDurationOr(c.Sync.DefaultInterval, defaultSyncInterval)
}

// GetRequestTimeout returns the per-call GitLab API timeout
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.Sync.RequestTimeout, defaultHTTPTimeout)
}

// GetOverlapWindow returns the incremental-fetch overlap window
func (c *Config) GetOverlapWindow() time.Duration {
	return parseDurationOr(c.Sync.OverlapWindow, defaultOverlapWindow)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Validate checks the configuration for missing or inconsistent settings
func (c *Config) Validate() error {
	if c.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database port is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if auth := c.Server.Auth; auth != nil && auth.Enabled {
		if auth.Username == "" || auth.Password == "" {
			return fmt.Errorf("auth.enabled requires auth.username and auth.password")
		}
	}

	for _, field := range []struct {
		name, value string
	}{
		{"sync.defaultInterval", c.Sync.DefaultInterval},
		{"sync.requestTimeout", c.Sync.RequestTimeout},
		{"sync.overlapWindow", c.Sync.OverlapWindow},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return fmt.Errorf("invalid %s: %w", field.name, err)
		}
	}

	return nil
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from the ISSUEBRIDGE_DATABASE_PASSWORD environment variable
// 3. Inline Password from the config file
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(envDatabasePassword); envPassword != "" {
		return envPassword, nil
	}

	if d.Password != "" {
		return d.Password, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set password, passwordFile or %s", envDatabasePassword,
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
