package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// versionTTL bounds how long a record's write version outlives its last write.
const versionTTL = 24 * time.Hour

// Cache wraps a Store with Redis-backed caching for record reads. Writes go
// to the base store first, then bump the record's version and evict the
// cached copy. A read only fills the cache if the version it saw before
// reading the base store is still current, so a fill racing a write is
// dropped instead of caching the old record.
type Cache struct {
	base  Store
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching Store wrapper using the provided Redis client and TTL.
func NewCache(base Store, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{base: base, redis: client, ttl: ttl}
}

func (c *Cache) NextID(ctx context.Context, kind Kind) (int64, error) {
	return c.base.NextID(ctx, kind)
}

func (c *Cache) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	if data, ok := c.load(ctx, kind, id); ok {
		return data, nil
	}
	ver, fill := c.version(ctx, kind, id)
	data, err := c.base.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if fill {
		c.store(ctx, kind, id, ver, data)
	}
	return data, nil
}

func (c *Cache) Put(ctx context.Context, kind Kind, id int64, data []byte) error {
	if err := c.base.Put(ctx, kind, id, data); err != nil {
		return err
	}
	c.evict(ctx, kind, id)
	return nil
}

func (c *Cache) Delete(ctx context.Context, kind Kind, id int64) error {
	if err := c.base.Delete(ctx, kind, id); err != nil {
		return err
	}
	c.evict(ctx, kind, id)
	return nil
}

func (c *Cache) Close() error {
	return c.base.Close()
}

func (c *Cache) load(ctx context.Context, kind Kind, id int64) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := cacheKey(kind, id)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}
	return data, true
}

// version reads the record's write version. fill is false when the cache
// must not be filled, because caching is off or Redis failed.
func (c *Cache) version(ctx context.Context, kind Kind, id int64) (ver string, fill bool) {
	if c.redis == nil || c.ttl == 0 {
		return "", false
	}
	ver, err := c.redis.Get(ctx, versionKey(kind, id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false
	}
	return ver, true
}

// store caches data unless a write bumped the version after ver was read.
func (c *Cache) store(ctx context.Context, kind Kind, id int64, ver string, data []byte) {
	vkey := versionKey(kind, id)
	_ = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vkey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != ver {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, cacheKey(kind, id), data, c.ttl)
			return nil
		})
		return err
	}, vkey)
}

var errStaleFill = errors.New("record changed while filling the cache")

// evict bumps the write version and drops the cached copy.
func (c *Cache) evict(ctx context.Context, kind Kind, id int64) {
	if c.redis == nil {
		return
	}
	vkey := versionKey(kind, id)
	_, _ = c.redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, vkey)
		p.Expire(ctx, vkey, versionTTL)
		p.Del(ctx, cacheKey(kind, id))
		return nil
	})
}

func cacheKey(kind Kind, id int64) string {
	return recordKey("cache", kind, id)
}

func versionKey(kind Kind, id int64) string {
	return recordKey("cache:ver", kind, id)
}
