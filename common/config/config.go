package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Guard     GuardConfig
	Client    ClientConfig
	Telemetry TelemetryConfig
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
}

// StoreConfig selects the ledger store backend
type StoreConfig struct {
	Type string // "memory" for MVP, "postgres" for production
}

// CacheConfig holds read-model cache settings
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// GuardConfig holds concurrency guard settings
type GuardConfig struct {
	Type string        // "local" or "redis"
	TTL  time.Duration // redis lock expiry, safety net against leaked locks
}

// ClientConfig holds settings for the ledger HTTP client
type ClientConfig struct {
	LedgerURL string
	Timeout   time.Duration
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	PprofEnabled bool
	PprofPort    int
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("LEDGER_PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "lending"),
			User:        getEnv("POSTGRES_USER", "lending"),
			Password:    getEnv("POSTGRES_PASSWORD", "lending"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Store: StoreConfig{
			Type: getEnv("STORE_TYPE", "memory"),
		},
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true),
			DefaultTTL: getEnvDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Guard: GuardConfig{
			Type: getEnv("GUARD_TYPE", "local"),
			TTL:  getEnvDuration("GUARD_TTL", 30*time.Second),
		},
		Client: ClientConfig{
			LedgerURL: getEnv("LEDGER_URL", "http://localhost:8080"),
			Timeout:   getEnvDuration("LEDGER_TIMEOUT", 10*time.Second),
		},
		Telemetry: TelemetryConfig{
			PprofEnabled: getEnvBool("PPROF_ENABLED", false),
			PprofPort:    getEnvInt("PPROF_PORT", 6060),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Store.Type {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown store type: %s", c.Store.Type)
	}

	switch c.Guard.Type {
	case "local", "redis":
	default:
		return fmt.Errorf("unknown guard type: %s", c.Guard.Type)
	}

	if c.Store.Type == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	return nil
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
