// Package backend opens the configured inventory and session stores.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/repository"
	"github.com/jafarshop/compras/internal/repository/postgres"
	"github.com/jafarshop/compras/internal/repository/restapi"
	"github.com/jafarshop/compras/internal/session"
)

// Open returns the repositories for cfg.Backend.Driver along with a func
// that releases them
func Open(cfg *config.Config, logger *zap.Logger) (*repository.Repositories, func() error, error) {
	switch cfg.Backend.Driver {
	case config.BackendDriverHTTP:
		client := restapi.NewClient(cfg.Backend, logger)
		logger.Info("Using REST backend", zap.String("base_url", cfg.Backend.BaseURL))
		return restapi.NewRepositories(client), func() error { return nil }, nil

	case config.BackendDriverPostgres:
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Using postgres backend",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.DBName),
		)
		return postgres.NewRepositories(db, logger), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}
}

// OpenSessions returns the cart session store for cfg.Sessions.Store. The
// memory store keeps carts in the service only, so the returned store is nil.
func OpenSessions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func() error, error) {
	if cfg.Sessions.Store != config.SessionStoreRedis {
		return nil, func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Sessions.RedisAddr,
		Password: cfg.Sessions.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Using redis cart sessions",
		zap.String("addr", cfg.Sessions.RedisAddr),
		zap.Duration("ttl", cfg.Sessions.TTL),
	)
	return session.NewRedisStore(client, cfg.Sessions.TTL), client.Close, nil
}
