// Package config defines the top-level configuration for the appraisal
// backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by NEXUS_* environment variables.
type Config struct {
	ESI       ESIConfig       `toml:"esi"`
	Redis     RedisConfig     `toml:"redis"`
	Postgres  PostgresConfig  `toml:"postgres"`
	Appraisal AppraisalConfig `toml:"appraisal"`
	Server    ServerConfig    `toml:"server"`
	LogLevel  string          `toml:"log_level"`
}

// ESIConfig holds market-data API parameters.
type ESIConfig struct {
	BaseURL        string   `toml:"base_url"`
	UserAgent      string   `toml:"user_agent"`
	RequestTimeout duration `toml:"request_timeout"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// AppraisalConfig holds valuation engine parameters.
type AppraisalConfig struct {
	// DefaultRegionID / DefaultSystemID select the hub used when a request
	// does not carry one (Jita / The Forge by default).
	DefaultRegionID int32 `toml:"default_region_id"`
	DefaultSystemID int32 `toml:"default_system_id"`
	// MaxConcurrency bounds in-flight order book fetches per request.
	MaxConcurrency  int      `toml:"max_concurrency"`
	CacheTTL        duration `toml:"cache_ttl"`
	DiscountPercent int      `toml:"discount_percent"`
	DiscountCap     int      `toml:"discount_cap"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		ESI: ESIConfig{
			BaseURL:        "https://esi.evetech.net/latest",
			UserAgent:      "eve-nexus-appraisal",
			RequestTimeout: duration{30 * time.Second},
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "nexus",
			User:          "nexus",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Appraisal: AppraisalConfig{
			DefaultRegionID: 10000002, // The Forge
			DefaultSystemID: 30000142, // Jita
			MaxConcurrency:  10,
			CacheTTL:        duration{5 * time.Minute},
			DiscountPercent: 100,
			DiscountCap:     99999,
		},
		Server: ServerConfig{
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// ESI
	if c.ESI.BaseURL == "" {
		errs = append(errs, "esi: base_url must not be empty")
	}
	if c.ESI.RequestTimeout.Duration <= 0 {
		errs = append(errs, "esi: request_timeout must be positive")
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Postgres
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	// Appraisal
	if c.Appraisal.DefaultRegionID <= 0 {
		errs = append(errs, "appraisal: default_region_id must be positive")
	}
	if c.Appraisal.DefaultSystemID <= 0 {
		errs = append(errs, "appraisal: default_system_id must be positive")
	}
	if c.Appraisal.MaxConcurrency < 1 {
		errs = append(errs, "appraisal: max_concurrency must be >= 1")
	}
	if c.Appraisal.DiscountPercent < 1 || c.Appraisal.DiscountPercent > 99999 {
		errs = append(errs, fmt.Sprintf("appraisal: discount_percent must be 1-99999, got %d", c.Appraisal.DiscountPercent))
	}
	if c.Appraisal.DiscountCap < 1 || c.Appraisal.DiscountCap > 99999 {
		errs = append(errs, fmt.Sprintf("appraisal: discount_cap must be 1-99999, got %d", c.Appraisal.DiscountCap))
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
