package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"talio/internal/domain"
	"talio/internal/events"
)

// DefaultPollTimeout is how long an idle long-poll waits before giving up.
const DefaultPollTimeout = 10 * time.Second

type slot struct {
	id string
	ch chan events.Event
}

// Poller parks long-poll requests in a FIFO of slots. Registered for every
// board, it hands each event to the oldest waiting slot only.
type Poller struct {
	timeout time.Duration
	obs     *events.Observer

	mu    sync.Mutex
	slots []*slot
}

func NewPoller(timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	p := &Poller{timeout: timeout}
	p.obs = events.NewObserver(p)
	return p
}

func (p *Poller) Timeout() time.Duration { return p.timeout }

// Observer is the identity the poller registers with.
func (p *Poller) Observer() domain.BoardObserver { return p.obs }

// Send implements events.Sink. Events with nobody waiting are dropped.
func (p *Poller) Send(e events.Event) error {
	p.Emit(e)
	return nil
}

// Emit resolves the oldest pending slot with e and reports whether one was waiting.
func (p *Poller) Emit(e events.Event) bool {
	p.mu.Lock()
	if len(p.slots) == 0 {
		p.mu.Unlock()
		return false
	}
	s := p.slots[0]
	p.slots = p.slots[1:]
	p.mu.Unlock()
	s.ch <- e
	return true
}

// Wait parks one slot until it is resolved, the timeout passes or ctx ends.
// ok is false when no event arrived.
func (p *Poller) Wait(ctx context.Context) (e events.Event, ok bool) {
	s := &slot{id: uuid.NewString(), ch: make(chan events.Event, 1)}
	p.mu.Lock()
	p.slots = append(p.slots, s)
	p.mu.Unlock()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case e := <-s.ch:
		return e, true
	case <-timer.C:
	case <-ctx.Done():
	}
	if p.remove(s) {
		return nil, false
	}
	// Emit took the slot first; its event is already buffered.
	return <-s.ch, true
}

func (p *Poller) remove(s *slot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, cur := range p.slots {
		if cur == s {
			p.slots = append(p.slots[:i:i], p.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Pending reports how many requests are waiting.
func (p *Poller) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}
