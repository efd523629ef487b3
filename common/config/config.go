package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Store     StoreConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
	// Migrate applies the embedded schema on startup.
	Migrate bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds cache settings
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// AuthConfig controls how callers are identified
type AuthConfig struct {
	JWTSecret string
	// Algorithm is the HMAC signing method tokens must use
	Algorithm string
	// AllowHeaderIdentity accepts X-User-ID in place of a bearer token.
	// Development only.
	AllowHeaderIdentity bool
}

// RateLimitConfig holds per-user write limits
type RateLimitConfig struct {
	Enabled         bool
	WritesPerMinute int64
}

// StoreConfig holds transaction settings for ranked and revisioned writes
type StoreConfig struct {
	IsolationLevel string
	TxTimeout      time.Duration
	VerifyRanks    bool
}

var isolationLevels = map[string]bool{
	"read committed":  true,
	"repeatable read": true,
	"serializable":    true,
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "wishlist"),
			User:        getEnv("POSTGRES_USER", "wishlist"),
			Password:    getEnv("POSTGRES_PASSWORD", "wishlist"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
			Migrate:     getEnvBool("POSTGRES_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			DefaultTTL: getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:           getEnv("AUTH_JWT_SECRET", ""),
			Algorithm:           getEnv("AUTH_JWT_ALGORITHM", "HS256"),
			AllowHeaderIdentity: getEnvBool("AUTH_ALLOW_HEADER_IDENTITY", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
			WritesPerMinute: int64(getEnvInt("RATE_LIMIT_WRITES_PER_MINUTE", 120)),
		},
		Store: StoreConfig{
			IsolationLevel: strings.ToLower(getEnv("STORE_ISOLATION_LEVEL", "read committed")),
			TxTimeout:      getEnvDuration("STORE_TX_TIMEOUT", 5*time.Second),
			VerifyRanks:    getEnvBool("STORE_VERIFY_RANKS", false),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	if !isolationLevels[c.Store.IsolationLevel] {
		return fmt.Errorf("unknown isolation level: %q", c.Store.IsolationLevel)
	}

	if c.Store.TxTimeout <= 0 {
		return fmt.Errorf("store tx timeout must be positive")
	}

	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("AUTH_JWT_SECRET is required outside development")
	}

	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt algorithm: %q", c.Auth.Algorithm)
	}

	if c.RateLimit.Enabled && c.RateLimit.WritesPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive when enabled")
	}

	return nil
}

// IsDevelopment reports whether the service runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "development"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
