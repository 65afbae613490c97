package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the configuration for Redis client.
type RedisConfig struct {
	Addr            string        `yaml:"addr"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	MaxRetries      int           `yaml:"maxRetries"`
	MinRetryBackoff time.Duration `yaml:"minRetryBackoff"`
	MaxRetryBackoff time.Duration `yaml:"maxRetryBackoff"`
	DialTimeout     time.Duration `yaml:"dialTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	PoolSize        int           `yaml:"poolSize"`
	MinIdleConns    int           `yaml:"minIdleConns"`
	PoolTimeout     time.Duration `yaml:"poolTimeout"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DefaultRedisConfig returns a RedisConfig with sensible defaults.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		PoolSize:        20,
		MinIdleConns:    2,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 10 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// ApplyDefaults fills zero fields from DefaultRedisConfig.
func (c *RedisConfig) ApplyDefaults() {
	d := DefaultRedisConfig()
	if c.MaxRetries == 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.MinRetryBackoff == 0 {
		c.MinRetryBackoff = d.MinRetryBackoff
	}
	if c.MaxRetryBackoff == 0 {
		c.MaxRetryBackoff = d.MaxRetryBackoff
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = d.DialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PoolSize == 0 {
		c.PoolSize = d.PoolSize
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = d.MinIdleConns
	}
	if c.PoolTimeout == 0 {
		c.PoolTimeout = d.PoolTimeout
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = d.ConnMaxIdleTime
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = d.ConnMaxLifetime
	}
}

var _ Cache = (*RedisCache)(nil)

// RedisCache implements Cache using go-redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCacheWithConfig creates a Redis cache instance and pings it.
func NewRedisCacheWithConfig(config *RedisConfig) (*RedisCache, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("addr cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:            config.Addr,
		Password:        config.Password,
		DB:              config.DB,
		MaxRetries:      config.MaxRetries,
		MinRetryBackoff: config.MinRetryBackoff,
		MaxRetryBackoff: config.MaxRetryBackoff,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		PoolSize:        config.PoolSize,
		MinIdleConns:    config.MinIdleConns,
		PoolTimeout:     config.PoolTimeout,
		ConnMaxIdleTime: config.ConnMaxIdleTime,
		ConnMaxLifetime: config.ConnMaxLifetime,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient creates a Redis cache from an existing redis.Client.
func NewRedisCacheWithClient(client *redis.Client) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
