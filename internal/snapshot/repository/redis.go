package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/snapshot"
	"github.com/redis/go-redis/v9"
)

var _ snapshot.Repository = (*RedisRepository)(nil)

// RedisRepository keeps the snapshot as one JSON value under key.
type RedisRepository struct {
	client *redis.Client
	key    string
}

func NewRedisRepository(client *redis.Client, key string) *RedisRepository {
	return &RedisRepository{client: client, key: key}
}

func (r *RedisRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DefaultSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", r.key, err)
	}
	return snap, nil
}

func (r *RedisRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	data, err := snapshot.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}
