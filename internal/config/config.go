package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Config holds all configuration for the application
type Config struct {
	Battle BattleConfig
	Redis  RedisConfig
	Sim    SimConfig
}

// BattleConfig holds game configuration
type BattleConfig struct {
	PacingDelay time.Duration `env:"BLUR_PACING_DELAY" envDefault:"500ms"`
	ProfileID   string        `env:"BLUR_PROFILE_ID"   envDefault:"default"`
}

// RedisConfig holds Redis-specific configuration.
// Saves stay in memory unless URL or Addr is set.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// SimConfig holds settings for the headless battle simulator
type SimConfig struct {
	Battles int   `env:"BLUR_SIM_BATTLES" envDefault:"3"`
	Seed    int64 `env:"BLUR_SIM_SEED"    envDefault:"0"`
}

// Enabled reports whether a Redis connection is configured
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Addr != ""
}

// Options builds client options. URL wins over Addr when both are set.
func (c RedisConfig) Options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	if c.Addr == "" {
		return nil, fmt.Errorf("redis is not configured")
	}
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate
	if cfg.Battle.PacingDelay < 0 {
		return nil, fmt.Errorf("BLUR_PACING_DELAY must not be negative, got %s", cfg.Battle.PacingDelay)
	}
	if cfg.Battle.ProfileID == "" {
		return nil, fmt.Errorf("BLUR_PROFILE_ID must not be empty")
	}
	if cfg.Sim.Battles < 1 {
		return nil, fmt.Errorf("BLUR_SIM_BATTLES must be at least 1, got %d", cfg.Sim.Battles)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("REDIS_DB must not be negative, got %d", cfg.Redis.DB)
	}

	return &cfg, nil
}
