package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("RATE_LIMIT_PER_MIN", "")
	t.Setenv("LOG_RETENTION_DAYS", "")

	cfg := Load()
	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q", cfg.DBHost)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Errorf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if cfg.LogRetention != 30*24*time.Hour {
		t.Errorf("LogRetention = %v", cfg.LogRetention)
	}
	if cfg.PageSize != 30 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.RateLimitPerMin != 10 {
		t.Errorf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want fallback 0", cfg.RedisDB)
	}
	dsn := cfg.DSN()
	for _, part := range []string{"host=db.internal", "password=hunter2", "TimeZone=UTC"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}
