// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Providers     ProvidersConfig
	Observability ObservabilityConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port               string
	Environment        string // development, staging, production
	LogLevel           string // debug, info, warn, error
	RateLimitPerSecond int
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

// DatabaseConfig holds database-related configuration. The catalog runs
// without a database when none is configured.
type DatabaseConfig struct {
	URL      string // full DSN override; takes precedence over the parts below
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the connection string, or "" when no database is configured.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Configured reports whether a database connection can be attempted.
func (d DatabaseConfig) Configured() bool {
	return d.DSN() != ""
}

// ProviderConfig holds connection settings for one external HTTP provider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether the provider has an endpoint to call.
func (p ProviderConfig) Configured() bool {
	return p.BaseURL != ""
}

// ProvidersConfig holds the external routing and places providers. Both are
// optional; the engine degrades to straight-line estimates and the seeded
// catalog when they are absent.
type ProvidersConfig struct {
	Routing        ProviderConfig
	Places         ProviderConfig
	MatrixCacheTTL time.Duration
}

// ObservabilityConfig holds tracing and metrics configuration
type ObservabilityConfig struct {
	ServiceName    string
	MetricsEnabled bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Environment:        getEnv("ENVIRONMENT", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			RateLimitPerSecond: getEnvAsInt("RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 100),
			ShutdownTimeout:    time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loci_routes"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Providers: ProvidersConfig{
			Routing: ProviderConfig{
				BaseURL: getEnv("ROUTING_API_URL", ""),
				APIKey:  getEnv("ROUTING_API_KEY", ""),
				Timeout: time.Duration(getEnvAsInt("ROUTING_TIMEOUT_SECONDS", 10)) * time.Second,
			},
			Places: ProviderConfig{
				BaseURL: getEnv("PLACES_API_URL", ""),
				APIKey:  getEnv("PLACES_API_KEY", ""),
				Timeout: time.Duration(getEnvAsInt("PLACES_TIMEOUT_SECONDS", 10)) * time.Second,
			},
			MatrixCacheTTL: time.Duration(getEnvAsInt("MATRIX_CACHE_TTL_SECONDS", 900)) * time.Second,
		},
		Observability: ObservabilityConfig{
			ServiceName:    getEnv("SERVICE_NAME", "loci-route-engine"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.RateLimitPerSecond < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	if c.Providers.MatrixCacheTTL <= 0 {
		return fmt.Errorf("MATRIX_CACHE_TTL_SECONDS must be positive")
	}

	if c.Providers.Routing.Configured() && c.Providers.Routing.Timeout <= 0 {
		return fmt.Errorf("ROUTING_TIMEOUT_SECONDS must be positive")
	}

	if c.Providers.Places.Configured() && c.Providers.Places.Timeout <= 0 {
		return fmt.Errorf("PLACES_TIMEOUT_SECONDS must be positive")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}
