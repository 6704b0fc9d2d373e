package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Port string

	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string

	// RedisHost empty disables the habit cache and the rate limiter.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	RateLimit       int
	RateLimitWindow time.Duration
	HabitCacheTTL   time.Duration
	TimerCheckSpec  string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading .env when
// present. Variables already set win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "lifecommander"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "lifecommander"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", "lifecommander"),

		TimerCheckSpec: getEnv("TIMER_CHECK_SPEC", "@every 5s"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.RedisDB, err = getIntEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = getIntEnv("RATE_LIMIT", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDurationEnv("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.HabitCacheTTL, err = getDurationEnv("HABIT_CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.StorageDriver != StoragePostgres && c.StorageDriver != StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER: unsupported value %q", c.StorageDriver)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT: must be positive, got %d", c.RateLimit)
	}
	return nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
