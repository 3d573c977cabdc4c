// Package session snapshots open carts outside the process so they survive
// a restart of the service.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jafarshop/compras/internal/cart"
	"github.com/jafarshop/compras/pkg/errors"
)

// Store persists cart snapshots by cart id
type Store interface {
	// Load returns false when no snapshot exists for id
	Load(ctx context.Context, id uuid.UUID) (cart.Cart, bool, error)
	Save(ctx context.Context, c cart.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisStore keeps cart snapshots as JSON values with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) Load(ctx context.Context, id uuid.UUID) (cart.Cart, bool, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, false, nil
	}
	if err != nil {
		return cart.Cart{}, false, &errors.ErrNetwork{Op: "redis get", Err: err}
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.Cart{}, false, fmt.Errorf("unmarshal cart %s failed: %w", id, err)
	}
	return c, true, nil
}

func (r *RedisStore) Save(ctx context.Context, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart %s failed: %w", c.ID, err)
	}
	if err := r.client.Set(ctx, key(c.ID), data, r.ttl).Err(); err != nil {
		return &errors.ErrNetwork{Op: "redis set", Err: err}
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return &errors.ErrNetwork{Op: "redis del", Err: err}
	}
	return nil
}

func key(id uuid.UUID) string {
	return "compras:cart:" + id.String()
}
