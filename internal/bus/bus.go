// Package bus carries the cross-store refresh signal. The conversation
// store publishes after each completed send cycle; the organization store
// (and any websocket feeds) subscribe and refetch their collections.
//
// The bus is passed explicitly at construction rather than living as an
// ambient global, so tests can wire isolated instances.
package bus

import "sync"

// Bus is a payload-free broadcast channel. Publish never blocks: slow
// subscribers coalesce pending signals instead of queueing them, since a
// refresh is idempotent.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan struct{})}
}

// Subscribe registers a subscriber. The returned channel receives one value
// per coalesced signal batch. Call the cancel func to unsubscribe.
func (b *Bus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish signals all subscribers. A subscriber with a signal already
// pending is skipped; it will refresh once for the whole batch.
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
