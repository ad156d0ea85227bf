// Package bus is a process-wide change notification broadcast, the analogue
// of dispatching a window event. Signals carry no payload: subscribers
// re-read whatever state they render instead of trusting a pushed snapshot.
package bus

import "sync"

type subscriber struct {
	id int
	fn func()
}

type Bus struct {
	mu   sync.Mutex
	subs []subscriber
	next int
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn for every future Notify and returns its
// unsubscribe function. Delivery follows registration order.
func (b *Bus) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify invokes every subscriber synchronously on the caller's goroutine,
// in registration order. There is no cross-process delivery.
func (b *Bus) Notify() {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}
