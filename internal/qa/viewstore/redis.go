package viewstore

import (
	"context"
	"errors"
	"time"

	"qaboard/internal/common/cache"
)

const redisKeyPrefix = "qaboard:view:"

// RedisStore keeps view payloads in Redis so several service replicas can share views.
type RedisStore struct {
	redis   cache.BasicOps
	ttl     time.Duration
	timeout time.Duration
}

func NewRedisStore(redis cache.BasicOps, ttl, timeout time.Duration) *RedisStore {
	return &RedisStore{redis: redis, ttl: ttl, timeout: timeout}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.redis == nil {
		return nil, false, errors.New("redis is nil")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	raw, err := s.redis.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		return nil, false, err
	}
	if raw == "" {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if s.redis == nil {
		return errors.New("redis is nil")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.redis.Set(ctx, redisKeyPrefix+key, value, s.ttl)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if s.redis == nil {
		return errors.New("redis is nil")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.redis.Del(ctx, redisKeyPrefix+key)
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
