package storage

import (
	"context"
	"sync"
)

type memKey struct {
	kind Kind
	id   int64
}

// Memory keeps records in process memory. It backs the default
// configuration and the domain tests.
type Memory struct {
	mu      sync.Mutex
	records map[memKey][]byte
	seq     map[Kind]int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[memKey][]byte), seq: make(map[Kind]int64)}
}

func (m *Memory) NextID(_ context.Context, kind Kind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq[kind]++
	return m.seq[kind], nil
}

func (m *Memory) Get(_ context.Context, kind Kind, id int64) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[memKey{kind, id}]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Put(_ context.Context, kind Kind, id int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.records[memKey{kind, id}] = buf
	return nil
}

func (m *Memory) Delete(_ context.Context, kind Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, memKey{kind, id})
	return nil
}

// Len reports how many records are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *Memory) Close() error { return nil }
