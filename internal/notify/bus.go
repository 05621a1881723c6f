package notify

import (
	"fmt"
	"slices"
	"sync"
)

// Handler receives published values.
type Handler[T any] func(T)

// Bus delivers published values to every subscribed handler.
// Delivery is synchronous and fire-and-forget: a panicking handler is recovered
// and reported through OnPanic, and never reaches the publisher.
type Bus[T any] struct {
	mu       sync.RWMutex
	handlers map[int]Handler[T]
	nextID   int

	// OnPanic, if set, is called with the recovered value of a failing handler.
	OnPanic func(recovered any)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[int]Handler[T])}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus[T]) Subscribe(h Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every handler subscribed at the time of the call, in subscription order.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	snapshot := make(map[int]Handler[T], len(b.handlers))
	for id, h := range b.handlers {
		snapshot[id] = h
	}
	b.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		b.deliver(snapshot[id], v)
	}
}

func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus[T]) deliver(h Handler[T], v T) {
	defer func() {
		if r := recover(); r != nil && b.OnPanic != nil {
			b.OnPanic(fmt.Errorf("notification handler panicked: %v", r))
		}
	}()
	h(v)
}
