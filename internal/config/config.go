package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	Web     WebConfig     `mapstructure:"web"`
	Backend BackendConfig `mapstructure:"backend"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// WebConfig contains HTTP server settings.
type WebConfig struct {
	Port int `mapstructure:"port"`
}

// BackendConfig contains the REST backend address and request timeout.
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// SessionConfig contains the cookie signing key and lifetimes.
type SessionConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TTL        time.Duration `mapstructure:"ttl"`
	VerifyTTL  time.Duration `mapstructure:"verify_ttl"`
}

// CacheConfig contains the public snapshot cache lifetime.
type CacheConfig struct {
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// Addr builds a go-redis compatible address.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("web.port", 8080)
	v.SetDefault("backend.base_url", "http://localhost:5000/api")
	v.SetDefault("backend.request_timeout", 10*time.Second)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.verify_ttl", 5*time.Minute)
	v.SetDefault("cache.snapshot_ttl", time.Minute)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"web.port":                "WEB_PORT",
		"backend.base_url":        "BACKEND_BASE_URL",
		"backend.request_timeout": "BACKEND_REQUEST_TIMEOUT",
		"redis.host":              "REDIS_HOST",
		"redis.port":              "REDIS_PORT",
		"session.signing_key":     "SESSION_SIGNING_KEY",
		"session.ttl":             "SESSION_TTL",
		"session.verify_ttl":      "SESSION_VERIFY_TTL",
		"cache.snapshot_ttl":      "CACHE_SNAPSHOT_TTL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Web.Port <= 0 {
		return errors.New("web port must be positive")
	}
	if cfg.Backend.BaseURL == "" {
		return errors.New("backend base url is required")
	}
	if cfg.Backend.RequestTimeout <= 0 {
		return errors.New("backend request timeout must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.Session.SigningKey == "" {
		return errors.New("session signing key is required")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if cfg.Session.VerifyTTL <= 0 {
		return errors.New("session verify ttl must be positive")
	}
	if cfg.Cache.SnapshotTTL <= 0 {
		return errors.New("cache snapshot ttl must be positive")
	}
	return nil
}
