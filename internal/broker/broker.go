package broker

import (
	"slices"
	"sync"

	"talio/internal/domain"
)

// AnyBoard is the bucket of observers interested in every board.
const AnyBoard int64 = 0

// Broker tracks which observers are subscribed to which board. Readers get
// snapshots, so observers may unsubscribe while a patch is broadcasting.
type Broker struct {
	mu   sync.RWMutex
	subs map[int64][]domain.BoardObserver
}

func New() *Broker {
	return &Broker{subs: make(map[int64][]domain.BoardObserver)}
}

// Subscribe adds o to the board bucket. Subscribing twice is a no-op.
func (b *Broker) Subscribe(board int64, o domain.BoardObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.Contains(b.subs[board], o) {
		return
	}
	b.subs[board] = append(b.subs[board], o)
}

// Unsubscribe removes o from the board bucket and drops empty buckets.
func (b *Broker) Unsubscribe(board int64, o domain.BoardObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remove(board, o)
}

// UnsubscribeAll removes o from every bucket.
func (b *Broker) UnsubscribeAll(o domain.BoardObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for board := range b.subs {
		b.remove(board, o)
	}
}

func (b *Broker) remove(board int64, o domain.BoardObserver) {
	list := b.subs[board]
	i := slices.Index(list, o)
	if i < 0 {
		return
	}
	if len(list) == 1 {
		delete(b.subs, board)
		return
	}
	b.subs[board] = slices.Delete(slices.Clone(list), i, i+1)
}

// BoardObservers returns a snapshot of the board bucket followed by the
// any-board bucket. For AnyBoard only that bucket is returned.
func (b *Broker) BoardObservers(board int64) []domain.BoardObserver {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.BoardObserver, 0, len(b.subs[board])+len(b.subs[AnyBoard]))
	out = append(out, b.subs[board]...)
	if board != AnyBoard {
		out = append(out, b.subs[AnyBoard]...)
	}
	return out
}

// CatalogObservers returns the any-board observers that watch the catalog.
func (b *Broker) CatalogObservers() []domain.CatalogObserver {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []domain.CatalogObserver
	for _, o := range b.subs[AnyBoard] {
		if co, ok := o.(domain.CatalogObserver); ok {
			out = append(out, co)
		}
	}
	return out
}

// Count reports the size of one bucket.
func (b *Broker) Count(board int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[board])
}
