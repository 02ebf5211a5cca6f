package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePreservesPushOrder(t *testing.T) {
	q := NewQueue[int]()
	for i := range 3000 {
		require.True(t, q.Push(i))
	}
	require.Equal(t, 3000, q.Len())

	for i := range 3000 {
		v, err := q.Pop(t.Context())
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueuePushAfterCloseIsDropped(t *testing.T) {
	q := NewQueue[string]()
	q.Close()

	assert.False(t, q.Push("late"))
	assert.Equal(t, 0, q.Len())
	assert.True(t, q.Closed())
}

func TestQueueCloseIsIdempotent(t *testing.T) {
	q := NewQueue[int]()
	q.Close()
	q.Close()

	_, err := q.Pop(t.Context())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueCloseWakesEveryBlockedReader(t *testing.T) {
	q := NewQueue[int]()
	const readers = 8

	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Pop(context.Background())
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("readers did not wake after close")
	}
	close(errs)
	for err := range errs {
		assert.ErrorIs(t, err, ErrQueueClosed)
	}

	// future readers observe the same terminal signal
	_, err := q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueDrainsBufferedItemsBeforeClosedSignal(t *testing.T) {
	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Close()

	v, err := q.Pop(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = q.Pop(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	_, err = q.Pop(t.Context())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueuePopHonorsContext(t *testing.T) {
	q := NewQueue[int]()
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue[int]()
	const producers, perProducer = 4, 500

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push(p*perProducer + i)
			}
		}()
	}
	wg.Wait()
	q.Close()

	seen := make(map[int]bool, producers*perProducer)
	err := q.Run(t.Context(), func(v int) error {
		seen[v] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, producers*perProducer)
}

func TestQueueTryPop(t *testing.T) {
	q := NewQueue[int]()
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push(7)
	v, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}
