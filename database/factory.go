package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// StoreType represents the type of key-value store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeSQLite StoreType = "sqlite"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	sqlitePath  string
	redisClient *redis.Client
	redisURL    string
}

// WithSQLitePath sets the database file for the SQLite store.
func WithSQLitePath(path string) StoreOption {
	return func(c *storeConfig) {
		c.sqlitePath = path
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisURL makes the Redis store dial its own client.
func WithRedisURL(url string) StoreOption {
	return func(c *storeConfig) {
		c.redisURL = url
	}
}

// NewStore creates a KeyValueStore of the given type.
// SQLite requires WithSQLitePath; Redis requires WithRedisClient or WithRedisURL.
func NewStore(ctx context.Context, storeType StoreType, opts ...StoreOption) (KeyValueStore, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(), nil

	case StoreTypeSQLite:
		if config.sqlitePath == "" {
			return nil, ErrInvalidConfig
		}
		db, err := OpenSQLite(config.sqlitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil

	case StoreTypeRedis:
		client := config.redisClient
		if client == nil {
			if config.redisURL == "" {
				return nil, ErrInvalidConfig
			}
			var err error
			client, err = NewRedisClient(ctx, config.redisURL)
			if err != nil {
				return nil, err
			}
		}
		return NewRedisStore(client), nil

	default:
		return nil, ErrInvalidStoreType
	}
}
