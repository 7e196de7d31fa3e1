// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :5000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. When empty it is assembled from the
	// discrete DB_* fields below.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBHost, DBPort, DBName, DBUser, DBPass are the discrete connection
	// parameters used when DATABASE_URL is not set.
	DBHost string `mapstructure:"DB_HOST"`
	DBPort string `mapstructure:"DB_PORT"`
	DBName string `mapstructure:"DB_NAME"`
	DBUser string `mapstructure:"DB_USER"`
	DBPass string `mapstructure:"DB_PASS"`
	// JWTPublicKey is the PEM-encoded RSA public verification key or a path to
	// a key file. When empty (or the file is missing) the key is bootstrapped
	// once from the store at first use.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTPrivateKey is the PEM-encoded RSA private key or path; only the seed
	// tool signs with it. The server never needs it.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// SessionTTL is the session liveness window (e.g. "1h"). Sessions idle
	// longer than this are reaped.
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// DBConnRetry is the number of attempts for a store operation that fails
	// with a transient connectivity error.
	DBConnRetry int `mapstructure:"DB_CONN_RETRY"`
	// DBRetryDelay is the fixed delay between retry attempts (e.g. "200ms").
	DBRetryDelay string `mapstructure:"DB_RETRY_DELAY"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASS", "postgres")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("SESSION_TTL", "1h")
	v.SetDefault("DB_CONN_RETRY", 3)
	v.SetDefault("DB_RETRY_DELAY", "200ms")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.DBConnRetry < 1 {
		return nil, errors.New("config: DB_CONN_RETRY must be at least 1")
	}

	return &cfg, nil
}

// DSN returns DatabaseURL when set, otherwise a DSN assembled from the
// discrete DB_* fields.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// SessionWindow parses SessionTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) SessionWindow() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// RetryDelay parses DBRetryDelay as a time.Duration. Returns 200ms if unset or invalid.
func (c *Config) RetryDelay() time.Duration {
	d, err := time.ParseDuration(c.DBRetryDelay)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}
