package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendDriverHTTP     = "http"
	BackendDriverPostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port               string
	Environment        string
	Backend            BackendConfig
	Database           DatabaseConfig
	Sessions           SessionConfig
	CORSAllowedOrigins []string
	NotificationBuffer int
	LogLevel           string
}

type BackendConfig struct {
	Driver          string
	BaseURL         string
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// SessionConfig selects where open carts are snapshotted
type SessionConfig struct {
	Store         string
	RedisAddr     string
	RedisPassword string
	TTL           time.Duration
}

type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsDir string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("BACKEND_DRIVER", BackendDriverHTTP)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := time.ParseDuration(getEnvOrViper("BACKEND_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_TIMEOUT is invalid: %w", err)
	}

	breakerFailures, err := strconv.ParseUint(getEnvOrViper("BACKEND_BREAKER_FAILURES", "5"), 10, 32)
	if err != nil || breakerFailures < 1 {
		return nil, fmt.Errorf("BACKEND_BREAKER_FAILURES must be a positive integer")
	}

	breakerCooldown, err := time.ParseDuration(getEnvOrViper("BACKEND_BREAKER_COOLDOWN", "30s"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_BREAKER_COOLDOWN is invalid: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnvOrViper("CART_SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("CART_SESSION_TTL is invalid: %w", err)
	}

	buffer, err := strconv.Atoi(getEnvOrViper("NOTIFICATION_BUFFER", "50"))
	if err != nil || buffer < 1 {
		return nil, fmt.Errorf("NOTIFICATION_BUFFER must be a positive integer")
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Backend: BackendConfig{
			Driver:          strings.ToLower(getEnvOrViper("BACKEND_DRIVER", BackendDriverHTTP)),
			BaseURL:         getEnvOrViper("BACKEND_BASE_URL", "http://localhost:8000/api"),
			Timeout:         timeout,
			BreakerFailures: uint32(breakerFailures),
			BreakerCooldown: breakerCooldown,
		},
		Sessions: SessionConfig{
			Store:         strings.ToLower(getEnvOrViper("CART_SESSION_STORE", SessionStoreMemory)),
			RedisAddr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnvOrViper("REDIS_PASSWORD", ""),
			TTL:           sessionTTL,
		},
		Database: DatabaseConfig{
			Host:          getEnvOrViper("DB_HOST", "localhost"),
			Port:          getEnvOrViper("DB_PORT", "5432"),
			User:          getEnvOrViper("DB_USER", "postgres"),
			Password:      getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:        getEnvOrViper("DB_NAME", "compras"),
			SSLMode:       getEnvOrViper("DB_SSLMODE", "disable"),
			MigrationsDir: getEnvOrViper("DB_MIGRATIONS_DIR", "migrations"),
		},
		CORSAllowedOrigins: splitList(getEnvOrViper("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		NotificationBuffer: buffer,
		LogLevel:           getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	switch cfg.Backend.Driver {
	case BackendDriverHTTP:
		if cfg.Backend.BaseURL == "" {
			return nil, fmt.Errorf("BACKEND_BASE_URL is required")
		}
	case BackendDriverPostgres:
	default:
		return nil, fmt.Errorf("BACKEND_DRIVER must be %q or %q", BackendDriverHTTP, BackendDriverPostgres)
	}

	switch cfg.Sessions.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if cfg.Sessions.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return nil, fmt.Errorf("CART_SESSION_STORE must be %q or %q", SessionStoreMemory, SessionStoreRedis)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
