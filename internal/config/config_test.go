package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("web port = %d, want 8080", cfg.Web.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000/api" {
		t.Errorf("backend base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout = %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Session.VerifyTTL != 5*time.Minute {
		t.Errorf("verify ttl = %v", cfg.Session.VerifyTTL)
	}
	if cfg.Cache.SnapshotTTL != time.Minute {
		t.Errorf("snapshot ttl = %v", cfg.Cache.SnapshotTTL)
	}
}

func TestLoadRequiresSigningKey(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when signing key is missing")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-key")
	t.Setenv("WEB_PORT", "9100")
	t.Setenv("BACKEND_BASE_URL", "https://api.example.com/v1")
	t.Setenv("BACKEND_REQUEST_TIMEOUT", "3s")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CACHE_SNAPSHOT_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Web.Port != 9100 {
		t.Errorf("web port = %d", cfg.Web.Port)
	}
	if cfg.Backend.BaseURL != "https://api.example.com/v1" {
		t.Errorf("backend base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 3*time.Second {
		t.Errorf("request timeout = %v", cfg.Backend.RequestTimeout)
	}
	if cfg.Redis.Addr() != "redis.internal:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
	if cfg.Cache.SnapshotTTL != 30*time.Second {
		t.Errorf("snapshot ttl = %v", cfg.Cache.SnapshotTTL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-key")
	t.Setenv("WEB_PORT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative port")
	}
}
