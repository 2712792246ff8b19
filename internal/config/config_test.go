package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Appraisal.DefaultRegionID != 10000002 {
		t.Errorf("DefaultRegionID = %d, want 10000002", cfg.Appraisal.DefaultRegionID)
	}
	if cfg.Appraisal.DefaultSystemID != 30000142 {
		t.Errorf("DefaultSystemID = %d, want 30000142", cfg.Appraisal.DefaultSystemID)
	}
	if cfg.Appraisal.MaxConcurrency != 10 {
		t.Errorf("MaxConcurrency = %d, want 10", cfg.Appraisal.MaxConcurrency)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Server.Port)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
log_level = "debug"

[appraisal]
cache_ttl = "90s"
discount_percent = 85

[server]
port = 9100
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Appraisal.CacheTTL.Duration != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.Appraisal.CacheTTL.Duration)
	}
	if cfg.Appraisal.DiscountPercent != 85 {
		t.Errorf("DiscountPercent = %d, want 85", cfg.Appraisal.DiscountPercent)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Appraisal.DefaultRegionID != 10000002 {
		t.Errorf("DefaultRegionID = %d, want default 10000002", cfg.Appraisal.DefaultRegionID)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEXUS_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("NEXUS_APPRAISAL_CACHE_TTL", "2m")
	t.Setenv("NEXUS_APPRAISAL_DEFAULT_REGION_ID", "10000043")
	t.Setenv("NEXUS_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NEXUS_POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Appraisal.CacheTTL.Duration != 2*time.Minute {
		t.Errorf("CacheTTL = %v, want 2m", cfg.Appraisal.CacheTTL.Duration)
	}
	if cfg.Appraisal.DefaultRegionID != 10000043 {
		t.Errorf("DefaultRegionID = %d, want 10000043", cfg.Appraisal.DefaultRegionID)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Postgres.RunMigrations {
		t.Error("RunMigrations should be overridden to false")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	cfg.Appraisal.MaxConcurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error")
	}
}
