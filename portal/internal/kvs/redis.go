package kvs

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redis *redis.Client
}

func NewRedis(redis *redis.Client) RedisStore {
	return RedisStore{
		redis: redis,
	}
}

func (r RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if _, err := r.redis.Set(ctx, key, value, ttl).Result(); err != nil {
		return err
	}
	return nil
}

func (r RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (r RedisStore) Del(ctx context.Context, keys ...string) error {
	if _, err := r.redis.Del(ctx, keys...).Result(); err != nil {
		return err
	}
	return nil
}
