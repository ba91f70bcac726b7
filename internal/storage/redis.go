package storage

import (
	"context"
	"errors"
	"fmt"

	"restaurante/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "restaurante:"

// RedisKV stores values in redis under a fixed prefix. Values carry no TTL:
// a persisted token lives until removed.
type RedisKV struct {
	client *redis.Client
}

// NewRedisClient builds a redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// NewRedisKV wraps an existing redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, errors.New("redis client is nil")
	}
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q from redis: %w", key, err)
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %q in redis: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete %q from redis: %w", key, err)
	}
	return nil
}

func (r *RedisKV) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
