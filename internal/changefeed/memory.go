package changefeed

import "sync"

// MemoryFeed is an in-process Feed for tests and local development:
// changes enter through Publish instead of a database trigger.
type MemoryFeed struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[*subscriber]struct{})}
}

func (f *MemoryFeed) Subscribe(table, action, column string) (*Subscription, error) {
	sub := &subscriber{
		table:  table,
		action: action,
		column: column,
		ch:     make(chan Change, subscriberBuffer),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrListenerClosed
	}
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	return newSubscription(sub.ch, func() {
		f.mu.Lock()
		_, ok := f.subs[sub]
		delete(f.subs, sub)
		f.mu.Unlock()
		if ok {
			close(sub.ch)
		}
	}), nil
}

// Publish delivers the change to every matching subscriber, blocking
// until each has buffer room. Tests rely on the synchronous delivery.
func (f *MemoryFeed) Publish(change Change) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs {
		if matches(change, sub.table, sub.action, sub.column) {
			sub.ch <- change
		}
	}
}

func (f *MemoryFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		delete(f.subs, sub)
		close(sub.ch)
	}
}
