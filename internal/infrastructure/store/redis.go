package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore guarda cada blob como string de redis, con un prefijo opcional.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore conecta con redisURL y valida la conexión.
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

// Get devuelve nil si la clave no existe.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return data, err
}

// Put guarda el blob sin expiración.
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, s.prefix+key, data, 0).Err()
}

// Close cierra el cliente.
func (s *RedisStore) Close() error { return s.rdb.Close() }
