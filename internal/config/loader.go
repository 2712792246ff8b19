package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies NEXUS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. A missing file is not
// an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known NEXUS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── ESI ──
	setStr(&cfg.ESI.BaseURL, "NEXUS_ESI_BASE_URL")
	setStr(&cfg.ESI.UserAgent, "NEXUS_ESI_USER_AGENT")
	setDuration(&cfg.ESI.RequestTimeout, "NEXUS_ESI_REQUEST_TIMEOUT")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "NEXUS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "NEXUS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "NEXUS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "NEXUS_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "NEXUS_REDIS_MAX_RETRIES")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "NEXUS_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "NEXUS_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "NEXUS_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "NEXUS_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "NEXUS_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "NEXUS_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "NEXUS_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "NEXUS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "NEXUS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "NEXUS_POSTGRES_RUN_MIGRATIONS")

	// ── Appraisal ──
	setInt32(&cfg.Appraisal.DefaultRegionID, "NEXUS_APPRAISAL_DEFAULT_REGION_ID")
	setInt32(&cfg.Appraisal.DefaultSystemID, "NEXUS_APPRAISAL_DEFAULT_SYSTEM_ID")
	setInt(&cfg.Appraisal.MaxConcurrency, "NEXUS_APPRAISAL_MAX_CONCURRENCY")
	setDuration(&cfg.Appraisal.CacheTTL, "NEXUS_APPRAISAL_CACHE_TTL")
	setInt(&cfg.Appraisal.DiscountPercent, "NEXUS_APPRAISAL_DISCOUNT_PERCENT")
	setInt(&cfg.Appraisal.DiscountCap, "NEXUS_APPRAISAL_DISCOUNT_CAP")

	// ── Server ──
	setInt(&cfg.Server.Port, "NEXUS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "NEXUS_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "NEXUS_SERVER_API_KEY")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "NEXUS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
