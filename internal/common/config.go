// Package common provides shared utilities for Andolan
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Andolan
type Config struct {
	Environment  string             `toml:"environment"`
	Server       ServerConfig       `toml:"server"`
	Storage      StorageConfig      `toml:"storage"`
	Clients      ClientsConfig      `toml:"clients"`
	Registration RegistrationConfig `toml:"registration"`
	Logging      LoggingConfig      `toml:"logging"`
	Auth         AuthConfig         `toml:"auth"`
	CORS         CORSConfig         `toml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the timeline record store.
type StorageConfig struct {
	Backend   string          `toml:"backend"`   // "sqlite" (default) or "surrealdb"
	SeedFile  string          `toml:"seed_file"` // JSON array of records imported at startup
	SQLite    SQLiteConfig    `toml:"sqlite"`
	SurrealDB SurrealDBConfig `toml:"surrealdb"`
}

// SQLiteConfig holds the path of the local database file.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// SurrealDBConfig holds SurrealDB connection settings.
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	TimelineAPI TimelineAPIConfig `toml:"timeline_api"`
}

// TimelineAPIConfig configures the client used by the terminal browser.
type TimelineAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *TimelineAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RegistrationConfig configures the member registration transport chain.
// Endpoints are tried in order; AllowMock appends the demo strategy, which
// is never enabled in production.
type RegistrationConfig struct {
	Endpoints []string `toml:"endpoints"`
	AllowMock bool     `toml:"allow_mock"`
	Timeout   string   `toml:"timeout"`
}

// GetTimeout parses and returns the per-endpoint timeout.
func (c *RegistrationConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// AuthConfig holds admin authentication configuration.
type AuthConfig struct {
	JWTSecret   string         `toml:"jwt_secret"`
	TokenExpiry string         `toml:"token_expiry"` // duration string, default "24h"
	Admins      []AdminAccount `toml:"admins"`
}

// AdminAccount is a configured administrator. PasswordHash is a bcrypt hash.
type AdminAccount struct {
	Email        string `toml:"email"`
	PasswordHash string `toml:"password_hash"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// FindAdmin returns the admin account with the given email (case-insensitive).
func (c *AuthConfig) FindAdmin(email string) (AdminAccount, bool) {
	for _, a := range c.Admins {
		if strings.EqualFold(a.Email, strings.TrimSpace(email)) {
			return a, true
		}
	}
	return AdminAccount{}, false
}

// CORSConfig lists the browser origins allowed to call the API.
// An empty list allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5001,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			SQLite:  SQLiteConfig{Path: "data/andolan.db"},
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Namespace: "andolan",
				Database:  "andolan",
				Username:  "root",
				Password:  "root",
			},
		},
		Clients: ClientsConfig{
			TimelineAPI: TimelineAPIConfig{
				BaseURL:   "http://localhost:5001",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Registration: RegistrationConfig{
			Endpoints: []string{"http://localhost:5001/api/members"},
			Timeout:   "15s",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:4028",
			},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
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
	if env := os.Getenv("ANDOLAN_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ANDOLAN_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ANDOLAN_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ANDOLAN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("ANDOLAN_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}
	if v := os.Getenv("ANDOLAN_SEED_FILE"); v != "" {
		config.Storage.SeedFile = v
	}
	if v := os.Getenv("ANDOLAN_SQLITE_PATH"); v != "" {
		config.Storage.SQLite.Path = v
	}
	if v := os.Getenv("ANDOLAN_SURREALDB_ADDRESS"); v != "" {
		config.Storage.SurrealDB.Address = v
	}
	if v := os.Getenv("ANDOLAN_SURREALDB_USERNAME"); v != "" {
		config.Storage.SurrealDB.Username = v
	}
	if v := os.Getenv("ANDOLAN_SURREALDB_PASSWORD"); v != "" {
		config.Storage.SurrealDB.Password = v
	}

	if v := os.Getenv("ANDOLAN_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("ANDOLAN_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("ANDOLAN_TIMELINE_API_URL"); v != "" {
		config.Clients.TimelineAPI.BaseURL = strings.TrimRight(v, "/")
	}

	if v := os.Getenv("ANDOLAN_REGISTRATION_ALLOW_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Registration.AllowMock = b
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// MockRegistrationEnabled reports whether the demo registration strategy may run.
func (c *Config) MockRegistrationEnabled() bool {
	return c.Registration.AllowMock && !c.IsProduction()
}
