// Package config loads vetcart settings from defaults, an optional .env file,
// an optional YAML file and VETCART_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the clinic backend client.
type APIConfig struct {
	BaseURL         string        `yaml:"base_url" validate:"required,url"`
	Timeout         time.Duration `yaml:"timeout" validate:"gt=0"`
	BreakerFailures uint32        `yaml:"breaker_failures" validate:"gte=1"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" validate:"gt=0"`
}

// CacheConfig configures the product catalog cache.
type CacheConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=memory redis"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" validate:"gt=0"`

	// RefreshInterval reloads the catalog while the shop is open; 0 disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
	// File receives log output; empty means stderr.
	File string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8080/api",
			Timeout:         10 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:         CacheMemory,
			TTL:             15 * time.Minute,
			RefreshInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path and envFile are optional; when given
// they must exist. A .env in the working directory is picked up if present.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadEnvFile(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.API.BaseURL = getEnv("VETCART_API_URL", cfg.API.BaseURL)
	cfg.Cache.Backend = getEnv("VETCART_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("VETCART_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnv("VETCART_REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Logging.Level = getEnv("VETCART_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = getEnv("VETCART_LOG_FILE", cfg.Logging.File)

	var err error
	if cfg.API.Timeout, err = getDuration("VETCART_API_TIMEOUT", cfg.API.Timeout); err != nil {
		return err
	}
	if cfg.Cache.TTL, err = getDuration("VETCART_CACHE_TTL", cfg.Cache.TTL); err != nil {
		return err
	}
	if cfg.Cache.RefreshInterval, err = getDuration("VETCART_CATALOG_REFRESH", cfg.Cache.RefreshInterval); err != nil {
		return err
	}
	if db := os.Getenv("VETCART_REDIS_DB"); db != "" {
		n, errAtoi := strconv.Atoi(db)
		if errAtoi != nil {
			return fmt.Errorf("VETCART_REDIS_DB: %w", errAtoi)
		}
		cfg.Cache.RedisDB = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
