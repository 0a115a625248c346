package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-progression/internal/domain/progression"
)

// Config holds all configuration for the application
type Config struct {
	Redis RedisConfig
	DND5E DND5EConfig
	Rules RulesConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server was configured
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Addr != ""
}

// Options builds client options, preferring URL over Addr
func (c RedisConfig) Options() (*redis.Options, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
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

// DND5EConfig holds D&D 5e API configuration
type DND5EConfig struct {
	BaseURL string
	// Enabled switches race lookups from the bundled catalog to the API
	Enabled bool
}

// RulesConfig holds table rule options
type RulesConfig struct {
	HitPointMethod    progression.HitPointMethod
	RequireExperience bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	db, err := getEnvAsIntOrDefault("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	dndEnabled, err := getEnvAsBoolOrDefault("DND5E_ENABLED", false)
	if err != nil {
		return nil, err
	}
	requireXP, err := getEnvAsBoolOrDefault("REQUIRE_EXPERIENCE", false)
	if err != nil {
		return nil, err
	}
	method, err := progression.ParseHitPointMethod(os.Getenv("HIT_POINT_METHOD"))
	if err != nil {
		return nil, fmt.Errorf("HIT_POINT_METHOD: %w", err)
	}

	cfg := &Config{
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		},
		DND5E: DND5EConfig{
			BaseURL: getEnvOrDefault("DND5E_API_URL", "https://www.dnd5eapi.co/api"),
			Enabled: dndEnabled,
		},
		Rules: RulesConfig{
			HitPointMethod:    method,
			RequireExperience: requireXP,
		},
	}

	if cfg.Redis.URL != "" {
		if _, err := cfg.Redis.Options(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return intValue, nil
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return boolValue, nil
}
