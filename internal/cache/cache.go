package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss reports that the key or field is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is a hash-structured key/value cache. A key groups related fields
// so they can be dropped together.
type Store interface {
	Get(ctx context.Context, key, field string) (string, error)
	Set(ctx context.Context, key, field, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// RedisStore implements Store with Redis hashes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key, field string) (string, error) {
	val, err := s.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

// Set writes the field and refreshes the TTL of the whole key.
func (s *RedisStore) Set(ctx context.Context, key, field, value string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// NopStore never stores anything. Used when Redis is not configured.
type NopStore struct{}

func (NopStore) Get(context.Context, string, string) (string, error) { return "", ErrCacheMiss }

func (NopStore) Set(context.Context, string, string, string, time.Duration) error { return nil }

func (NopStore) Delete(context.Context, ...string) error { return nil }
