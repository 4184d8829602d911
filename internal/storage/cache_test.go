package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingStore struct {
	*Memory
	gets int
}

func (c *countingStore) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	c.gets++
	return c.Memory.Get(ctx, kind, id)
}

func TestCacheGetMissThenHit(t *testing.T) {
	mr, client := setupRedis(t)
	base := &countingStore{Memory: NewMemory()}
	ctx := context.Background()
	if err := base.Put(ctx, KindCard, 3, []byte(`{"title":"c"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cache := NewCache(base, client, time.Minute)

	for i := 0; i < 2; i++ {
		data, err := cache.Get(ctx, KindCard, 3)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(data) != `{"title":"c"}` {
			t.Fatalf("unexpected record %s", data)
		}
	}
	if base.gets != 1 {
		t.Fatalf("expected 1 call to backend, got %d", base.gets)
	}
	if ttl := mr.TTL(cacheKey(KindCard, 3)); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}
}

func TestCachePutEvicts(t *testing.T) {
	mr, client := setupRedis(t)
	base := &countingStore{Memory: NewMemory()}
	ctx := context.Background()
	cache := NewCache(base, client, time.Minute)

	if err := cache.Put(ctx, KindCard, 1, []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := cache.Get(ctx, KindCard, 1); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !mr.Exists(cacheKey(KindCard, 1)) {
		t.Fatal("expected cached entry after read")
	}
	if err := cache.Put(ctx, KindCard, 1, []byte("v2")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if mr.Exists(cacheKey(KindCard, 1)) {
		t.Fatal("expected cached entry to be evicted after write")
	}
	data, err := cache.Get(ctx, KindCard, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "v2" {
		t.Fatalf("expected fresh value, got %s", data)
	}
}

func TestCacheDeleteAndMissingRecord(t *testing.T) {
	_, client := setupRedis(t)
	cache := NewCache(NewMemory(), client, time.Minute)
	ctx := context.Background()
	if err := cache.Put(ctx, KindTag, 9, []byte("t")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := cache.Get(ctx, KindTag, 9); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := cache.Delete(ctx, KindTag, 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cache.Get(ctx, KindTag, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCacheZeroTTLDisablesStore(t *testing.T) {
	mr, client := setupRedis(t)
	base := NewMemory()
	ctx := context.Background()
	_ = base.Put(ctx, KindBoard, 1, []byte("b"))
	cache := NewCache(base, client, 0)
	if _, err := cache.Get(ctx, KindBoard, 1); err != nil {
		t.Fatalf("get: %v", err)
	}
	if mr.Exists(cacheKey(KindBoard, 1)) {
		t.Fatal("expected nothing cached with zero ttl")
	}
}

// interleavedStore calls during once, right after the first base read.
type interleavedStore struct {
	*Memory
	during func()
}

func (s *interleavedStore) Get(ctx context.Context, kind Kind, id int64) ([]byte, error) {
	data, err := s.Memory.Get(ctx, kind, id)
	if fn := s.during; fn != nil {
		s.during = nil
		fn()
	}
	return data, err
}

func TestCacheDropsFillRacingAWrite(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()
	base := &interleavedStore{Memory: NewMemory()}
	if err := base.Put(ctx, KindCard, 1, []byte("old")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cache := NewCache(base, client, time.Minute)
	base.during = func() {
		if err := cache.Put(ctx, KindCard, 1, []byte("new")); err != nil {
			t.Errorf("put: %v", err)
		}
	}

	data, err := cache.Get(ctx, KindCard, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "old" {
		t.Fatalf("expected the value read before the write, got %s", data)
	}
	if mr.Exists(cacheKey(KindCard, 1)) {
		t.Fatal("expected the racing fill to be dropped")
	}

	data, err = cache.Get(ctx, KindCard, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("cache serves %s while the store holds new", data)
	}
	if !mr.Exists(cacheKey(KindCard, 1)) {
		t.Fatal("expected a quiet read to fill the cache")
	}
}

func TestCacheWriteBumpsVersion(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()
	cache := NewCache(NewMemory(), client, time.Minute)

	for i := 0; i < 2; i++ {
		if err := cache.Put(ctx, KindTag, 4, []byte("t")); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := cache.Delete(ctx, KindTag, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := mr.Get(versionKey(KindTag, 4))
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if got != "3" {
		t.Fatalf("expected version 3 after three writes, got %s", got)
	}
	if ttl := mr.TTL(versionKey(KindTag, 4)); ttl <= 0 || ttl > versionTTL {
		t.Fatalf("unexpected version TTL: %v", ttl)
	}
}
