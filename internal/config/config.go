// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Service names reported by /health and used as the metrics service label.
const (
	UsersAPI    = "users-api"
	ProductsAPI = "products-api"
)

// defaultPorts are the listening ports used when PORT is unset.
var defaultPorts = map[string]int{
	UsersAPI:    4001,
	ProductsAPI: 4002,
}

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings. Port and Service default per service in Load.
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Port    int    `env:"PORT"`
	Service string `env:"SERVICE"`

	// Database: a PostgreSQL DSN for users-api, a MongoDB URI for products-api.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// PostgreSQL schema owning the users table.
	UsersSchema string `env:"USERS_SCHEMA" envDefault:"users_schema"`

	// MongoDB
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"microshop"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"products"`

	// Peer (products-api only). A zero timeout means none.
	UsersAPIURL string        `env:"USERS_API_URL" envDefault:"http://localhost:4001"`
	PeerTimeout time.Duration `env:"PEER_TIMEOUT" envDefault:"0s"`

	// Cache (Redis). Empty disables the entity cache.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// CacheEnabled reports whether REDIS_URL was provided.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables for the named service and returns a Config.
// Returns an error if required variables are missing or values are invalid.
func Load(service string) (*Config, error) {
	cfg := &Config{
		Port:    defaultPorts[service],
		Service: service,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PeerTimeout < 0 {
		return fmt.Errorf("PEER_TIMEOUT must not be negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be positive")
	}
	return nil
}
