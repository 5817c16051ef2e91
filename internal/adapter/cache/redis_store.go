package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/auctionlab/market-compliance/internal/port"
)

// RedisStore is a redis-backed port.Store for sharing stage outputs across
// processes. Values are JSON documents with a common TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ port.Store = (*RedisStore)(nil)

func NewRedisStore(addr string, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{
		client: rdb,
		ttl:    ttl,
	}
}

func key(name string) string { return "ctx:" + name }

func (s *RedisStore) Set(ctx context.Context, name string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(name), b, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, name string, dest any) error {
	b, err := s.client.Get(ctx, key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return port.ErrKeyNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, key(name)).Err()
}
