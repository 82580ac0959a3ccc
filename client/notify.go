package client

import (
	"sync"
	"time"
)

const (
	DefaultNotificationTTL      = 4 * time.Second
	DefaultNotificationCapacity = 32
	defaultSweepInterval        = 250 * time.Millisecond
)

type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

type Notification struct {
	ID        uint64
	Message   string
	Kind      NotificationKind
	ExpiresAt time.Time
}

// Notifier is a bounded queue of transient messages. One ticker goroutine
// sweeps expired entries; Close stops it.
type Notifier struct {
	mu       sync.Mutex
	items    []Notification
	nextID   uint64
	ttl      time.Duration
	capacity int
	interval time.Duration
	now      func() time.Time

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type NotifierOption func(*Notifier)

func WithTTL(ttl time.Duration) NotifierOption {
	return func(n *Notifier) { n.ttl = ttl }
}

func WithCapacity(capacity int) NotifierOption {
	return func(n *Notifier) { n.capacity = capacity }
}

func WithSweepInterval(d time.Duration) NotifierOption {
	return func(n *Notifier) { n.interval = d }
}

func withClock(now func() time.Time) NotifierOption {
	return func(n *Notifier) { n.now = now }
}

func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{
		ttl:      DefaultNotificationTTL,
		capacity: DefaultNotificationCapacity,
		interval: defaultSweepInterval,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.capacity < 1 {
		n.capacity = 1
	}
	go n.run()
	return n
}

func (n *Notifier) run() {
	ticker := time.NewTicker(n.interval)
	defer func() {
		ticker.Stop()
		close(n.stopped)
	}()
	for {
		select {
		case <-ticker.C:
			n.sweep()
		case <-n.done:
			return
		}
	}
}

// Notify enqueues a message and returns its id. When full, the oldest entry goes.
func (n *Notifier) Notify(message string, kind NotificationKind) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	if len(n.items) >= n.capacity {
		n.items = append(n.items[:0], n.items[len(n.items)-n.capacity+1:]...)
	}
	n.items = append(n.items, Notification{
		ID:        n.nextID,
		Message:   message,
		Kind:      kind,
		ExpiresAt: n.now().Add(n.ttl),
	})
	return n.nextID
}

// Dismiss removes an entry early. It reports whether the entry was still there.
func (n *Notifier) Dismiss(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns live entries in insertion order.
func (n *Notifier) Items() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	out := make([]Notification, 0, len(n.items))
	for _, item := range n.items {
		if now.Before(item.ExpiresAt) {
			out = append(out, item)
		}
	}
	return out
}

func (n *Notifier) sweep() {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	kept := n.items[:0]
	for _, item := range n.items {
		if now.Before(item.ExpiresAt) {
			kept = append(kept, item)
		}
	}
	n.items = kept
}

// Close stops the sweeper and waits for it to exit.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.done)
		<-n.stopped
	})
}
