package kvs

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key ...string) error
}

// KeyValueStore stores JSON encoded values on top of a byte Store.
type KeyValueStore struct {
	c Store
}

func New(c Store) KeyValueStore {
	return KeyValueStore{
		c: c,
	}
}

func (kvs KeyValueStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	ser, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return kvs.c.Set(ctx, key, ser, ttl)
}

func (kvs KeyValueStore) Get(ctx context.Context, key string, result any) error {
	data, err := kvs.c.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, result)
}

func (kvs KeyValueStore) Del(ctx context.Context, key ...string) error {
	return kvs.c.Del(ctx, key...)
}
