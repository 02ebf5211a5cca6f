// Package ingest owns market data subscriptions and the callback surface the
// upstream feed pushes into.
package ingest

import (
	"sync"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/bus"
	"feedbridge/internal/obs"
	"feedbridge/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// DefaultMaxSubscriptions is the ceiling shared by every subscription kind.
const DefaultMaxSubscriptions = 200

// Resolver maps an instrument code to a tradable contract.
type Resolver interface {
	Resolve(code string) (broker.Contract, bool)
}

type entry[T any] struct {
	contract broker.Contract
	queue    *bus.Queue[T]
}

// Registry tracks live subscriptions and owns their delivery queues.
//
// opMu serializes Subscribe, Unsubscribe and CloseAll including their
// upstream calls. mu guards the maps only and is never held across an
// upstream call, so lookups from the feed callback stay short.
type Registry struct {
	quote    broker.Quote
	resolver Resolver
	metrics  *obs.Metrics
	maxCount int

	opMu    sync.Mutex
	mu      sync.RWMutex
	ticks   map[string]entry[broker.Tick]
	bidAsks map[string]entry[broker.BidAsk]
	closed  bool
}

// NewRegistry creates an empty registry. maxCount <= 0 selects
// DefaultMaxSubscriptions.
func NewRegistry(quote broker.Quote, resolver Resolver, maxCount int, metrics *obs.Metrics) *Registry {
	if maxCount <= 0 {
		maxCount = DefaultMaxSubscriptions
	}
	return &Registry{
		quote:    quote,
		resolver: resolver,
		metrics:  metrics,
		maxCount: maxCount,
		ticks:    make(map[string]entry[broker.Tick]),
		bidAsks:  make(map[string]entry[broker.BidAsk]),
	}
}

// Subscribe registers code for kind upstream and allocates its queue.
func (r *Registry) Subscribe(code string, kind enum.SubscriptionKind) error {
	if !kind.IsAvailable() {
		return errors.Wrapf(exception.ErrUnsupportedKind, "kind: %d", kind)
	}
	if code == "" {
		return errors.Wrap(exception.ErrInvalidArgument, "empty code")
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.RLock()
	closed := r.closed
	exists := r.existsLocked(code, kind)
	count := len(r.ticks) + len(r.bidAsks)
	r.mu.RUnlock()

	switch {
	case closed:
		return exception.ErrSubscriptionClosed
	case exists:
		return errors.Wrapf(exception.ErrAlreadySubscribed, "%s %s", kind, code)
	case count >= r.maxCount:
		return errors.Wrapf(exception.ErrCapacityExceeded, "max: %d", r.maxCount)
	}

	contract, ok := r.resolver.Resolve(code)
	if !ok {
		return errors.Wrap(exception.ErrUnknownInstrument, code)
	}

	if err := r.quote.Subscribe(contract, kind); err != nil {
		return errors.Wrapf(exception.ErrUpstreamUnavailable, "subscribe %s %s, err: %+v", kind, code, err)
	}

	r.mu.Lock()
	switch kind {
	case enum.SubscriptionTick:
		r.ticks[code] = entry[broker.Tick]{contract: contract, queue: bus.NewQueue[broker.Tick]()}
	case enum.SubscriptionBidAsk:
		r.bidAsks[code] = entry[broker.BidAsk]{contract: contract, queue: bus.NewQueue[broker.BidAsk]()}
	}
	r.refreshGaugeLocked()
	r.mu.Unlock()

	logs.Infof("subscribe %s: %s %s", kind, code, contract.Name)
	return nil
}

// Unsubscribe deregisters code upstream and closes its queue. An upstream
// failure is logged; the local subscription is torn down regardless.
func (r *Registry) Unsubscribe(code string, kind enum.SubscriptionKind) error {
	if !kind.IsAvailable() {
		return errors.Wrapf(exception.ErrUnsupportedKind, "kind: %d", kind)
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	var (
		contract broker.Contract
		closeFn  func()
	)

	r.mu.Lock()
	switch kind {
	case enum.SubscriptionTick:
		if e, ok := r.ticks[code]; ok {
			contract, closeFn = e.contract, e.queue.Close
			delete(r.ticks, code)
		}
	case enum.SubscriptionBidAsk:
		if e, ok := r.bidAsks[code]; ok {
			contract, closeFn = e.contract, e.queue.Close
			delete(r.bidAsks, code)
		}
	}
	if closeFn != nil {
		r.refreshGaugeLocked()
	}
	r.mu.Unlock()

	if closeFn == nil {
		return errors.Wrapf(exception.ErrNotSubscribed, "%s %s", kind, code)
	}
	closeFn()

	if err := r.quote.Unsubscribe(contract, kind); err != nil {
		logs.Warnf("unsubscribe %s %s upstream, err: %+v", kind, code, err)
	}

	logs.Infof("unsubscribe %s: %s %s", kind, code, contract.Name)
	return nil
}

// TickQueue returns the live tick queue for code.
func (r *Registry) TickQueue(code string) (*bus.Queue[broker.Tick], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ticks[code]
	return e.queue, ok
}

// BidAskQueue returns the live bid/ask queue for code.
func (r *Registry) BidAskQueue(code string) (*bus.Queue[broker.BidAsk], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.bidAsks[code]
	return e.queue, ok
}

// Count is the number of live subscriptions across every kind.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ticks) + len(r.bidAsks)
}

// MaxCount is the subscription capacity Subscribe enforces.
func (r *Registry) MaxCount() int {
	return r.maxCount
}

// Codes lists the subscribed codes of kind in no particular order.
func (r *Registry) Codes(kind enum.SubscriptionKind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var codes []string
	switch kind {
	case enum.SubscriptionTick:
		codes = make([]string, 0, len(r.ticks))
		for code := range r.ticks {
			codes = append(codes, code)
		}
	case enum.SubscriptionBidAsk:
		codes = make([]string, 0, len(r.bidAsks))
		for code := range r.bidAsks {
			codes = append(codes, code)
		}
	}
	return codes
}

// CloseAll closes every delivery queue and rejects later subscriptions. It
// does not talk to the upstream.
func (r *Registry) CloseAll() {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	for code, e := range r.ticks {
		e.queue.Close()
		delete(r.ticks, code)
	}
	for code, e := range r.bidAsks {
		e.queue.Close()
		delete(r.bidAsks, code)
	}
	r.refreshGaugeLocked()
}

func (r *Registry) existsLocked(code string, kind enum.SubscriptionKind) bool {
	switch kind {
	case enum.SubscriptionTick:
		_, ok := r.ticks[code]
		return ok
	case enum.SubscriptionBidAsk:
		_, ok := r.bidAsks[code]
		return ok
	default:
		return false
	}
}

func (r *Registry) refreshGaugeLocked() {
	r.metrics.SetSubscriptions(enum.SubscriptionTick, len(r.ticks))
	r.metrics.SetSubscriptions(enum.SubscriptionBidAsk, len(r.bidAsks))
}
