package bus

import (
	"context"
	"sync"

	"feedbridge/pkg/exception"
)

// ErrQueueClosed is returned by Pop once the queue is closed and drained.
var ErrQueueClosed = exception.ErrChannelClosed

// Queue is an ordered, unbounded, closable FIFO. Any number of goroutines may
// push and pop concurrently. Close wakes every blocked reader.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool
	// wake is closed and replaced on every push and on close.
	wake chan struct{}
}

// NewQueue allocates an empty open queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{wake: make(chan struct{})}
}

// Push appends v. It never blocks and reports false when the queue is closed;
// pushing to a closed queue is not an error.
func (q *Queue[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	q.broadcastLocked()
	return true
}

// Pop removes the oldest item, blocking until one is available. Items pushed
// before Close are still delivered; after that Pop returns ErrQueueClosed.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if q.head < len(q.items) {
			v := q.items[q.head]
			q.items[q.head] = zero
			q.head++
			q.compactLocked()
			q.mu.Unlock()
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			return zero, ErrQueueClosed
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-wake:
		}
	}
}

// TryPop removes the oldest item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	q.compactLocked()
	return v, true
}

// Close stops the queue from accepting new items. It is safe to call more
// than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.broadcastLocked()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Run consumes items until the context is done or the queue is closed and
// drained. The returned error is nil on a clean close.
func (q *Queue[T]) Run(ctx context.Context, handler func(T) error) error {
	for {
		v, err := q.Pop(ctx)
		if err != nil {
			if err == ErrQueueClosed {
				return nil
			}
			return err
		}
		if err := handler(v); err != nil {
			return err
		}
	}
}

func (q *Queue[T]) broadcastLocked() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func (q *Queue[T]) compactLocked() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}
