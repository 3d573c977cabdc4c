package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "")
	t.Setenv("BACKEND_BASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendDriverHTTP, cfg.Backend.Driver)
	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 50, cfg.NotificationBuffer)
	assert.Equal(t, uint32(5), cfg.Backend.BreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.Backend.BreakerCooldown)
	assert.Equal(t, SessionStoreMemory, cfg.Sessions.Store)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("BACKEND_DRIVER", "POSTGRES")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("DB_NAME", "inventario")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://admin.local ,")
	t.Setenv("CART_SESSION_STORE", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendDriverPostgres, cfg.Backend.Driver)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "inventario", cfg.Database.DBName)
	assert.Equal(t, []string{"http://admin.local"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, SessionStoreRedis, cfg.Sessions.Store)
	assert.Equal(t, "cache:6379", cfg.Sessions.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "BACKEND_DRIVER", "mongo"},
		{"bad timeout", "BACKEND_TIMEOUT", "soon"},
		{"bad buffer", "NOTIFICATION_BUFFER", "0"},
		{"zero breaker failures", "BACKEND_BREAKER_FAILURES", "0"},
		{"bad breaker cooldown", "BACKEND_BREAKER_COOLDOWN", "later"},
		{"unknown session store", "CART_SESSION_STORE", "memcached"},
		{"bad session ttl", "CART_SESSION_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
