package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/broker/sim"
	"feedbridge/internal/model"
	"feedbridge/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureTrade(id string, status string) broker.Trade {
	ts := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	return broker.Trade{
		Contract: broker.Contract{Code: "TXFA4", SecurityType: enum.SecurityFuture},
		Order:    broker.Order{ID: id, Action: broker.ActionBuy, Price: 17500, Quantity: 1},
		Status:   broker.OrderStatus{ID: id, Status: status, OrderTime: &ts},
	}
}

type memRecorder struct {
	mu      sync.Mutex
	records []model.Trade
}

func (r *memRecorder) Record(t model.Trade) {
	r.mu.Lock()
	r.records = append(r.records, t)
	r.mu.Unlock()
}

func (r *memRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func TestRefreshEvictsStaleOrders(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	cache := NewCache(client)

	client.SetTrades([]broker.Trade{futureTrade("a", broker.StatusFilled), futureTrade("b", broker.StatusSubmitted), futureTrade("c", broker.StatusCancelled)})
	require.NoError(t, cache.Refresh(t.Context()))
	require.Equal(t, 3, cache.Len())

	client.SetTrades([]broker.Trade{futureTrade("b", broker.StatusFilled), futureTrade("d", broker.StatusSubmitted)})
	require.NoError(t, cache.Refresh(t.Context()))

	_, ok := cache.Lookup("a")
	assert.False(t, ok)
	_, ok = cache.Lookup("c")
	assert.False(t, ok)

	b, ok := cache.LookupRecord("b")
	require.True(t, ok)
	assert.Equal(t, enum.OrderStatusFilled, b.Status)
	assert.Equal(t, 2, cache.Len())
}

func TestRefreshPublishesInListOrder(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	rec := &memRecorder{}
	cache := NewCache(client, WithRecorder(rec))

	client.SetTrades([]broker.Trade{futureTrade("x", broker.StatusSubmitted), futureTrade("y", broker.StatusSubmitted)})
	require.NoError(t, cache.Refresh(t.Context()))

	first, ok := cache.Queue().TryPop()
	require.True(t, ok)
	second, ok := cache.Queue().TryPop()
	require.True(t, ok)
	assert.Equal(t, "x", first.OrderID)
	assert.Equal(t, "y", second.OrderID)
	assert.Equal(t, 2, rec.Len())
}

func TestRefreshFailureRollsBack(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	rec := &memRecorder{}
	cache := NewCache(client, WithRecorder(rec))

	client.SetTrades([]broker.Trade{futureTrade("a", broker.StatusSubmitted), futureTrade("b", broker.StatusSubmitted)})
	require.NoError(t, cache.Refresh(t.Context()))
	published := cache.Queue().Len()

	client.FailListTrades(errors.New("timeout"))
	err := cache.Refresh(t.Context())
	assert.True(t, errors.Is(err, exception.ErrUpstreamUnavailable))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, published, cache.Queue().Len())
	assert.Equal(t, 2, rec.Len())

	client.SetUpdateStatusError(errors.New("session lost"))
	assert.True(t, errors.Is(cache.Refresh(t.Context()), exception.ErrUpstreamUnavailable))
	assert.Equal(t, 2, cache.Len())
}

// gatedTrader blocks ListTrades until released, then fails.
type gatedTrader struct {
	broker.Trader
	entered chan struct{}
	release chan struct{}
	trades  []broker.Trade
	fail    bool
}

func (g *gatedTrader) UpdateStatus(context.Context) error {
	return nil
}

func (g *gatedTrader) ListTrades() ([]broker.Trade, error) {
	if !g.fail {
		return g.trades, nil
	}
	g.entered <- struct{}{}
	<-g.release
	return nil, errors.New("upstream dropped")
}

func TestLookupDuringFailingRefreshSeesSnapshot(t *testing.T) {
	trader := &gatedTrader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		trades:  []broker.Trade{futureTrade("a", broker.StatusSubmitted)},
	}
	cache := NewCache(trader)
	require.NoError(t, cache.Refresh(t.Context()))

	trader.fail = true
	refreshed := make(chan error, 1)
	go func() { refreshed <- cache.Refresh(context.Background()) }()
	<-trader.entered

	found := make(chan bool, 1)
	go func() {
		_, ok := cache.Lookup("a")
		found <- ok
	}()

	select {
	case <-found:
		t.Fatal("lookup returned while refresh held the cache")
	case <-time.After(50 * time.Millisecond):
	}

	close(trader.release)
	require.Error(t, <-refreshed)
	assert.True(t, <-found)
}

func TestConcurrentLookupNeverEmpty(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	cache := NewCache(client)
	client.SetTrades([]broker.Trade{futureTrade("a", broker.StatusSubmitted)})
	require.NoError(t, cache.Refresh(t.Context()))

	for range 50 {
		client.FailListTrades(errors.New("flaky"))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 50 {
			_ = cache.Refresh(context.Background())
		}
	}()

	misses := 0
	go func() {
		defer wg.Done()
		for range 500 {
			if _, ok := cache.Lookup("a"); !ok {
				misses++
			}
		}
	}()
	wg.Wait()

	assert.Zero(t, misses)
}

func TestRefreshAsyncPublishesEveryOrder(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	rec := &memRecorder{}
	cache := NewCache(client, WithRecorder(rec))

	trades := make([]broker.Trade, 0, 20)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q", "r", "s", "t"} {
		trades = append(trades, futureTrade(id, broker.StatusSubmitted))
	}
	client.SetTrades(trades)

	done := make(chan int, 1)
	require.NoError(t, cache.RefreshAsync(func(n int) { done <- n }))

	select {
	case n := <-done:
		assert.Equal(t, 20, n)
	case <-time.After(time.Second):
		t.Fatal("async refresh did not complete")
	}

	assert.Equal(t, 20, cache.Queue().Len())
	assert.Equal(t, 20, rec.Len())
	assert.Zero(t, cache.Len())
}

func TestRefreshAsyncUpstreamError(t *testing.T) {
	client := sim.NewClient(sim.DefaultOption())
	client.SetUpdateStatusError(errors.New("busy"))
	cache := NewCache(client)

	err := cache.RefreshAsync(nil)
	assert.True(t, errors.Is(err, exception.ErrUpstreamUnavailable))
}

func TestCloseEndsBroadcast(t *testing.T) {
	cache := NewCache(sim.NewClient(sim.DefaultOption()))
	cache.Close()
	cache.Close()

	_, err := cache.Queue().Pop(t.Context())
	assert.True(t, errors.Is(err, exception.ErrChannelClosed))
}
