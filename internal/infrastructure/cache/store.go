package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is a byte-oriented key/value cache with per-entry TTL
type Store interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// NewRedisClient connects to Redis and verifies the connection.
// It returns nil, nil when Redis is not configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	addr := cfg.Addr()
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewStore returns a Redis-backed store when client is set, otherwise an
// in-memory store local to this process
func NewStore(client *redis.Client, logger *zap.Logger) Store {
	if client != nil {
		logger.Info("Using Redis cache")
		return NewRedisStore(client, "fuelsync:cache:")
	}
	logger.Warn("Redis not configured, using in-memory cache; cached prices are not shared between instances")
	return NewMemoryStore(5 * time.Minute)
}

// ErrClosed is returned by a MemoryStore after Close
var ErrClosed = errors.New("cache: store closed")
