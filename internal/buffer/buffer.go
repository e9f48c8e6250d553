// Package buffer implements the bounded FIFO buffer used at the spool
// pipeline's edges (spec.md §4.A). It is a direct mutex+condvar translation
// of original_source/src/osim/SPOOLing.rs's Buffer<T>, generalized to any
// item type via Go generics.
package buffer

import (
	"sync"
)

// Buffer is a fixed-capacity FIFO queue. The zero value is not usable;
// construct with New. Safe for concurrent use by multiple producers and
// consumers.
type Buffer[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	items    []T
	capacity int
}

// New creates a Buffer with the given capacity. Capacity must be positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	b := &Buffer[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
	b.notEmpty = sync.NewCond(&b.mu)
	b.notFull = sync.NewCond(&b.mu)
	return b
}

// TryPush inserts item at the tail iff size < capacity. Never blocks.
// Returns false if full, in which case the item is not stored and the
// caller's copy is left unmodified.
func (b *Buffer[T]) TryPush(item T) (accepted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.capacity {
		return false
	}
	b.items = append(b.items, item)
	b.notEmpty.Signal()
	return true
}

// Push blocks until size < capacity, then inserts.
func (b *Buffer[T]) Push(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.items) >= b.capacity {
		b.notFull.Wait()
	}
	b.items = append(b.items, item)
	b.notEmpty.Signal()
}

// TryPop removes and returns the head item without blocking.
func (b *Buffer[T]) TryPop() (item T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return item, false
	}
	item = b.items[0]
	b.items = b.items[1:]
	b.notFull.Signal()
	return item, true
}

// Pop blocks until the buffer is non-empty, then removes and returns the
// head item.
func (b *Buffer[T]) Pop() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.items) == 0 {
		b.notEmpty.Wait()
	}
	item := b.items[0]
	b.items = b.items[1:]
	b.notFull.Signal()
	return item
}

// Size returns the current number of buffered items.
func (b *Buffer[T]) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Capacity returns the fixed capacity.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}
