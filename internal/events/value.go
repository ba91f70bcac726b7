package events

import "sync"

// Value is a replay-latest observable: subscribers registered after a
// publish immediately receive the last published value. Publishes are
// delivered to subscribers in registration order, and writes are
// serialized, so every subscriber observes values in write order.
type Value[T any] struct {
	mu       sync.Mutex
	last     T
	hasLast  bool
	nextID   int
	handlers map[int]func(T)
}

// NewValue constructs an observable with no value published yet.
func NewValue[T any]() *Value[T] {
	return &Value[T]{handlers: make(map[int]func(T))}
}

// Publish stores v as the latest value and notifies all subscribers.
func (v *Value[T]) Publish(val T) {
	v.mu.Lock()
	v.last = val
	v.hasLast = true
	handlers := make([]func(T), 0, len(v.handlers))
	for id := 0; id < v.nextID; id++ {
		if h, ok := v.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	v.mu.Unlock()

	for _, h := range handlers {
		h(val)
	}
}

// Subscribe registers fn and replays the latest value to it, when one
// exists. The returned func removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.handlers[id] = fn
	last, has := v.last, v.hasLast
	v.mu.Unlock()

	if has {
		fn(last)
	}

	return func() {
		v.mu.Lock()
		delete(v.handlers, id)
		v.mu.Unlock()
	}
}

// Current returns the latest published value and whether one exists.
func (v *Value[T]) Current() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last, v.hasLast
}
