package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talio/internal/events"
)

func TestPollerDefaultTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, DefaultPollTimeout)
	assert.Equal(t, DefaultPollTimeout, NewPoller(0).Timeout())
}

func TestPollerIdleTimesOutNotBefore(t *testing.T) {
	p := NewPoller(60 * time.Millisecond)
	start := time.Now()
	e, ok := p.Wait(context.Background())
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Nil(t, e)
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Equal(t, 0, p.Pending())
}

func TestPollerResolvesOldestSlot(t *testing.T) {
	p := NewPoller(time.Second)
	first := make(chan events.Event, 1)
	second := make(chan bool, 1)

	go func() {
		e, _ := p.Wait(context.Background())
		first <- e
	}()
	require.Eventually(t, func() bool { return p.Pending() == 1 }, time.Second, time.Millisecond)
	go func() {
		_, ok := p.Wait(context.Background())
		second <- ok
	}()
	require.Eventually(t, func() bool { return p.Pending() == 2 }, time.Second, time.Millisecond)

	want := events.CardTitleSet{Scope: events.Scope{BoardID: 1}, CardID: 2, NewTitle: "t"}
	assert.True(t, p.Emit(want))
	assert.Equal(t, events.Event(want), <-first)
	assert.Equal(t, 1, p.Pending())
	assert.False(t, <-second)
}

func TestPollerEmitWithoutWaiters(t *testing.T) {
	p := NewPoller(time.Second)
	assert.False(t, p.Emit(events.BoardRemoved{}))
	assert.NoError(t, p.Send(events.BoardRemoved{}))
}

func TestPollerCancelledRequestDropsSlot(t *testing.T) {
	p := NewPoller(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := p.Wait(ctx)
		done <- ok
	}()
	require.Eventually(t, func() bool { return p.Pending() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.False(t, <-done)
	assert.Equal(t, 0, p.Pending())
}
