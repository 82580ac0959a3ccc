package client

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestNotifier(t *testing.T, opts ...NotifierOption) (*Notifier, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	opts = append([]NotifierOption{withClock(clock.Now), WithSweepInterval(time.Hour)}, opts...)
	n := NewNotifier(opts...)
	t.Cleanup(n.Close)
	return n, clock
}

func TestNotifierExpiresEntries(t *testing.T) {
	n, clock := newTestNotifier(t, WithTTL(4*time.Second))

	n.Notify("Bill created", NotifySuccess)
	clock.Advance(2 * time.Second)
	n.Notify("Room saved", NotifyInfo)
	require.Len(t, n.Items(), 2)

	clock.Advance(2 * time.Second)
	items := n.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Room saved", items[0].Message)

	n.sweep()
	clock.Advance(2 * time.Second)
	assert.Empty(t, n.Items())
}

func TestNotifierDropsOldestWhenFull(t *testing.T) {
	n, _ := newTestNotifier(t, WithCapacity(3))

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		n.Notify(msg, NotifyInfo)
	}
	items := n.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].Message)
	assert.Equal(t, "e", items[2].Message)
	assert.Equal(t, uint64(5), items[2].ID)
}

func TestNotifierDismiss(t *testing.T) {
	n, _ := newTestNotifier(t)

	first := n.Notify("one", NotifyWarning)
	n.Notify("two", NotifyError)

	assert.True(t, n.Dismiss(first))
	assert.False(t, n.Dismiss(first))
	require.Len(t, n.Items(), 1)
	assert.Equal(t, NotifyError, n.Items()[0].Kind)
}

func TestNotifierCloseIsIdempotent(t *testing.T) {
	n := NewNotifier(WithSweepInterval(time.Millisecond))
	n.Notify("bye", NotifyInfo)
	n.Close()
	n.Close()

	select {
	case <-n.stopped:
	default:
		t.Fatal("sweeper still running after Close")
	}
}
