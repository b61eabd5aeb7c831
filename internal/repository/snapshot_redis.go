package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/classgrid-backend/internal/config"
)

// RedisSnapshot persists a ListStore as a JSON string under snapshot:{kind}.
type RedisSnapshot[T any] struct {
	rdb redis.Cmdable
	key string
}

// NewRedisSnapshot creates a snapshot persister for one entity kind.
func NewRedisSnapshot[T any](rdb redis.Cmdable, kind string) *RedisSnapshot[T] {
	return &RedisSnapshot[T]{rdb: rdb, key: config.CacheKey.SnapshotKey(kind)}
}

func (p *RedisSnapshot[T]) Load(ctx context.Context) (Snapshot[T], error) {
	raw, err := p.rdb.Get(ctx, p.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot[T]{}, nil
		}
		return Snapshot[T]{}, fmt.Errorf("get %s: %w", p.key, err)
	}

	var snap Snapshot[T]
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot[T]{}, fmt.Errorf("decode %s: %w", p.key, err)
	}
	return snap, nil
}

func (p *RedisSnapshot[T]) Save(ctx context.Context, snap Snapshot[T]) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.key, err)
	}
	return p.rdb.Set(ctx, p.key, raw, 0).Err()
}
