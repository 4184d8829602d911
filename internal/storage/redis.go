package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "talio"

// Redis stores every record as a plain string value and allocates ids with
// INCR on a per-kind sequence key.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store. An empty prefix selects "talio".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("storage.NewRedis: client is nil")
	}
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) seqKey(kind Kind) string {
	return r.prefix + ":" + string(kind) + ":seq"
}

func (r *Redis) NextID(ctx context.Context, kind Kind) (int64, error) {
	id, err := r.client.Incr(ctx, r.seqKey(kind)).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", kind, err)
	}
	return id, nil
}

func (r *Redis) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	data, err := r.client.Get(ctx, recordKey(r.prefix, kind, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *Redis) Put(ctx context.Context, kind Kind, id int64, data []byte) error {
	return r.client.Set(ctx, recordKey(r.prefix, kind, id), data, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, kind Kind, id int64) error {
	return r.client.Del(ctx, recordKey(r.prefix, kind, id)).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
