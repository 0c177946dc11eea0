package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// Config tunes cart cache expiry. Zero values fall back to the defaults,
// so callers only set what they care about.
type Config struct {
	// BaseTTL is the minimum lifetime of a cached cart.
	BaseTTL time.Duration

	// MaxJitter is the upper bound of the random extension added to
	// BaseTTL on every write, spreading expiry so a burst of sessions
	// does not refill the cache at once. Zero disables jitter.
	MaxJitter time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseTTL <= 0 {
		c.BaseTTL = 15 * time.Minute
	}
	if c.MaxJitter < 0 {
		c.MaxJitter = 0
	}
	return c
}

type RedisCache struct {
	client *redis.Client
	cfg    Config
}

func NewRedisCache(client *redis.Client, cfg Config) *RedisCache {
	return &RedisCache{
		client: client,
		cfg:    cfg.withDefaults(),
	}
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+sessionID, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) ttl() time.Duration {
	if r.cfg.MaxJitter <= 0 {
		return r.cfg.BaseTTL
	}
	return r.cfg.BaseTTL + time.Duration(rand.Int63n(int64(r.cfg.MaxJitter)))
}
