package order

import (
	"context"
	"sync"
	"time"

	"feedbridge/internal/broker"
	"feedbridge/internal/bus"
	"feedbridge/internal/model"
	"feedbridge/internal/obs"
	"feedbridge/internal/translate"
	"feedbridge/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"
)

// fanOutLimit caps concurrent pushes in RefreshAsync.
const fanOutLimit = 8

// Recorder receives every record published on the broadcast queue.
type Recorder interface {
	Record(trade model.Trade)
}

// Cache mirrors the upstream order list. The map is replaced wholesale on
// every refresh and readers never observe it half built.
type Cache struct {
	trader   broker.Trader
	metrics  *obs.Metrics
	recorder Recorder
	now      func() time.Time

	mu     sync.Mutex
	orders map[string]broker.Trade

	asyncMu sync.Mutex
	queue   *bus.Queue[model.Trade]
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

func WithRecorder(r Recorder) CacheOption {
	return func(c *Cache) { c.recorder = r }
}

func WithMetrics(m *obs.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

func NewCache(trader broker.Trader, opts ...CacheOption) *Cache {
	c := &Cache{
		trader: trader,
		now:    time.Now,
		orders: make(map[string]broker.Trade),
		queue:  bus.NewQueue[model.Trade](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh rebuilds the cache from the upstream order list and publishes
// every order. On failure the previous contents are restored and the error
// is returned; there is no retry.
func (c *Cache) Refresh(ctx context.Context) error {
	start := time.Now()

	c.mu.Lock()
	snapshot := c.orders
	c.orders = make(map[string]broker.Trade, len(snapshot))

	trades, err := c.fetch(ctx)
	if err != nil {
		c.orders = snapshot
		c.mu.Unlock()

		c.metrics.ObserveRefresh(obs.RefreshRollback, time.Since(start))
		logs.Errorf("refresh orders, rollback %d orders, err: %+v", len(snapshot), err)
		return err
	}

	now := c.now()
	records := make([]model.Trade, 0, len(trades))
	for _, t := range trades {
		c.orders[t.Order.ID] = t
		record := translate.Trade(t, now)
		c.queue.Push(record)
		records = append(records, record)
	}
	c.mu.Unlock()

	c.metrics.ObserveRefresh(obs.RefreshOK, time.Since(start))
	c.record(records)
	return nil
}

func (c *Cache) fetch(ctx context.Context) ([]broker.Trade, error) {
	if err := c.trader.UpdateStatus(ctx); err != nil {
		return nil, errors.Wrapf(exception.ErrUpstreamUnavailable, "update status, err: %+v", err)
	}
	trades, err := c.trader.ListTrades()
	if err != nil {
		return nil, errors.Wrapf(exception.ErrUpstreamUnavailable, "list trades, err: %+v", err)
	}
	return trades, nil
}

// RefreshAsync asks the upstream for pending updates without waiting and
// publishes the returned orders from the upstream's callback. The cache map
// is left untouched. done, when not nil, runs after every push completed.
func (c *Cache) RefreshAsync(done func(n int)) error {
	start := time.Now()
	err := c.trader.UpdateStatusAsync(func(trades []broker.Trade) {
		c.asyncMu.Lock()
		defer c.asyncMu.Unlock()

		now := c.now()
		records := make([]model.Trade, len(trades))

		var g errgroup.Group
		g.SetLimit(fanOutLimit)
		for i, t := range trades {
			g.Go(func() error {
				records[i] = translate.Trade(t, now)
				c.queue.Push(records[i])
				return nil
			})
		}
		_ = g.Wait()

		c.metrics.ObserveRefresh(obs.RefreshAsync, time.Since(start))
		c.record(records)
		if done != nil {
			done(len(records))
		}
	})
	if err != nil {
		return errors.Wrapf(exception.ErrUpstreamUnavailable, "update status async, err: %+v", err)
	}
	return nil
}

func (c *Cache) record(records []model.Trade) {
	if c.recorder == nil {
		return
	}
	for _, r := range records {
		c.recorder.Record(r)
	}
}

// Lookup returns the cached upstream order.
func (c *Cache) Lookup(orderID string) (broker.Trade, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.orders[orderID]
	return t, ok
}

// LookupRecord returns the cached order normalized.
func (c *Cache) LookupRecord(orderID string) (model.Trade, bool) {
	t, ok := c.Lookup(orderID)
	if !ok {
		return model.Trade{}, false
	}
	return translate.Trade(t, c.now()), true
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.orders)
}

// Queue is the broadcast queue of normalized order records.
func (c *Cache) Queue() *bus.Queue[model.Trade] {
	return c.queue
}

// Close closes the broadcast queue.
func (c *Cache) Close() {
	c.queue.Close()
}
