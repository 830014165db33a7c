// Package events provides the publish/subscribe bus each battle engine uses
// to hand snapshots to its listeners.
package events

import (
	"fmt"
	"log"
	"sync"
)

// Listener receives published values
type Listener[T any] func(T)

type subscription[T any] struct {
	id       string
	listener Listener[T]
}

// Bus manages delivery of values to listeners in subscription order.
// Once closed it delivers nothing and accepts no new listeners.
type Bus[T any] struct {
	name      string
	mu        sync.RWMutex
	listeners map[string]Listener[T]
	order     []string
	nextID    int
	closed    bool
}

// NewBus creates a new bus; name is used as the log prefix
func NewBus[T any](name string) *Bus[T] {
	return &Bus[T]{
		name:      name,
		listeners: make(map[string]Listener[T]),
	}
}

// Subscribe registers a listener and returns its ID.
// Returns an empty ID if the bus is closed or the listener is nil.
func (b *Bus[T]) Subscribe(listener Listener[T]) string {
	if listener == nil {
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ""
	}

	b.nextID++
	id := fmt.Sprintf("%s-listener-%d", b.name, b.nextID)
	b.listeners[id] = listener
	b.order = append(b.order, id)

	log.Printf("%s: Subscribed listener %s (%d total)", b.name, id, len(b.listeners))
	return id
}

// Unsubscribe removes a listener. Returns false if it was not registered.
func (b *Bus[T]) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.listeners[id]; !ok {
		return false
	}

	delete(b.listeners, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	log.Printf("%s: Unsubscribed listener %s", b.name, id)
	return true
}

// Emit delivers value to every registered listener and returns how many received it.
// A listener removed (or the bus closed) during delivery is skipped.
func (b *Bus[T]) Emit(value T) int {
	b.mu.RLock()
	subs := make([]subscription[T], 0, len(b.order))
	if !b.closed {
		for _, id := range b.order {
			subs = append(subs, subscription[T]{id: id, listener: b.listeners[id]})
		}
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if !b.isActive(sub.id) {
			continue
		}
		b.deliver(sub, value)
		delivered++
	}

	return delivered
}

// Deliver sends value to a single registered listener
func (b *Bus[T]) Deliver(id string, value T) bool {
	b.mu.RLock()
	listener, ok := b.listeners[id]
	closed := b.closed
	b.mu.RUnlock()

	if !ok || closed {
		return false
	}

	b.deliver(subscription[T]{id: id, listener: listener}, value)
	return true
}

// Len returns the number of registered listeners
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Close removes all listeners and stops further delivery
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	b.listeners = make(map[string]Listener[T])
	b.order = nil
	log.Printf("%s: Closed", b.name)
}

// Closed reports whether Close has been called
func (b *Bus[T]) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func (b *Bus[T]) isActive(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return false
	}
	_, ok := b.listeners[id]
	return ok
}

// deliver isolates the bus from a panicking listener
func (b *Bus[T]) deliver(sub subscription[T], value T) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s: listener %s panicked: %v", b.name, sub.id, r)
		}
	}()

	sub.listener(value)
}
