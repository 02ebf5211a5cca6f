package ingest

import (
	"context"
	"time"

	"feedbridge/internal/broker"
	"feedbridge/internal/bus"
	"feedbridge/internal/obs"

	"github.com/yanun0323/logs"
)

const (
	kindTick   = "tick"
	kindBidAsk = "bidask"
	kindEvent  = "event"
)

// refreshTimeout bounds the order refresh run on the feed's callback
// goroutine.
const refreshTimeout = 10 * time.Second

// OrderRefresher rebuilds the order cache from the upstream.
type OrderRefresher interface {
	Refresh(ctx context.Context) error
}

// Dispatcher implements broker.FeedHandler. Market data is routed by code
// into the registry's queues as received; consumers translate on read.
// Messages with no open queue are dropped.
type Dispatcher struct {
	registry *Registry
	orders   OrderRefresher
	events   *bus.Queue[broker.FeedEvent]
	metrics  *obs.Metrics
}

func NewDispatcher(registry *Registry, orders OrderRefresher, metrics *obs.Metrics) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		orders:   orders,
		events:   bus.NewQueue[broker.FeedEvent](),
		metrics:  metrics,
	}
}

// Events is the broadcast queue of upstream session events.
func (d *Dispatcher) Events() *bus.Queue[broker.FeedEvent] {
	return d.events
}

func (d *Dispatcher) OnTick(tick broker.Tick) {
	d.metrics.IncFeed(kindTick)
	q, ok := d.registry.TickQueue(tick.Code)
	if !ok || !q.Push(tick) {
		d.metrics.IncDropped(kindTick)
	}
}

func (d *Dispatcher) OnBidAsk(bidAsk broker.BidAsk) {
	d.metrics.IncFeed(kindBidAsk)
	q, ok := d.registry.BidAskQueue(bidAsk.Code)
	if !ok || !q.Push(bidAsk) {
		d.metrics.IncDropped(kindBidAsk)
	}
}

func (d *Dispatcher) OnFeedEvent(event broker.FeedEvent) {
	d.metrics.IncFeed(kindEvent)
	logs.Infof("resp_code: %d, event_code: %d, info: %s, event: %s", event.RespCode, event.EventCode, event.Info, event.Event)
	if !d.events.Push(event) {
		d.metrics.IncDropped(kindEvent)
	}
}

// OnOrderEvent logs the event and refreshes the order cache before
// returning. A failed refresh is logged; the cache has already rolled back.
func (d *Dispatcher) OnOrderEvent(state broker.OrderState, msg map[string]any) {
	line, ok := describeOrderEvent(state, msg)
	if ok {
		logs.Info(line)
	}

	if d.orders != nil {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		if err := d.orders.Refresh(ctx); err != nil {
			logs.Errorf("refresh orders after %s, err: %+v", state, err)
		}
		cancel()
	}

	if !ok {
		logs.Warnf("drop malformed %s event: %v", state, msg)
	}
}
