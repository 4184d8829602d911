package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySequencesArePerKind(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		id, err := m.NextID(ctx, KindBoard)
		if err != nil {
			t.Fatalf("next id: %v", err)
		}
		if id != want {
			t.Fatalf("expected board id %d, got %d", want, id)
		}
	}
	id, err := m.NextID(ctx, KindCard)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first card id 1, got %d", id)
	}
}

func TestMemoryPutGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	payload := []byte(`{"title":"b"}`)
	if err := m.Put(ctx, KindBoard, 7, payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload[2] = 'X'
	got, err := m.Get(ctx, KindBoard, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"title":"b"}` {
		t.Fatalf("stored record was aliased: %s", got)
	}
	if err := m.Delete(ctx, KindBoard, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, KindBoard, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", m.Len())
	}
}
