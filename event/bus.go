// Package event provides an in-process publish/subscribe bus with disposable
// subscriptions.
//
// Handlers run synchronously on the publishing goroutine, in subscription
// order, outside the bus lock. A handler may unsubscribe itself.
package event

import (
	"sync"
)

// Handler receives published values.
type Handler[T any] func(T)

// Bus fans out values of type T to every subscriber.
type Bus[T any] struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[uint64]Handler[T]
	order    []uint64
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[uint64]Handler[T])}
}

// Subscription is a disposable handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery to the handler. Calling it more than once is a
// no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn and returns its handle.
func (b *Bus[T]) Subscribe(fn Handler[T]) *Subscription {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	return &Subscription{cancel: func() { b.remove(id) }}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers v to every current subscriber.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	fns := make([]Handler[T], 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of active subscribers.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
