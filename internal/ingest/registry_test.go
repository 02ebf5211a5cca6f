package ingest

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuote struct {
	mu    sync.Mutex
	err   error
	subs  map[string]int
	unsub int
}

func newFakeQuote() *fakeQuote {
	return &fakeQuote{subs: make(map[string]int)}
}

func (q *fakeQuote) Subscribe(contract broker.Contract, kind enum.SubscriptionKind) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.subs[kind.String()+":"+contract.Code]++
	return nil
}

func (q *fakeQuote) Unsubscribe(contract broker.Contract, kind enum.SubscriptionKind) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.unsub++
	return q.err
}

type anyResolver struct{}

func (anyResolver) Resolve(code string) (broker.Contract, bool) {
	if code == "UNKNOWN" {
		return broker.Contract{}, false
	}
	return broker.Contract{Code: code, Name: "contract " + code, SecurityType: enum.SecurityFuture}, true
}

func TestSubscribeDuplicate(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 0, nil)

	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionTick))
	err := r.Subscribe("TXFA4", enum.SubscriptionTick)
	assert.True(t, errors.Is(err, exception.ErrAlreadySubscribed))

	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionBidAsk))
	assert.Equal(t, 2, r.Count())
}

func TestSubscribeCapacityDoesNotMutate(t *testing.T) {
	quote := newFakeQuote()
	r := NewRegistry(quote, anyResolver{}, 0, nil)
	require.Equal(t, DefaultMaxSubscriptions, r.MaxCount())

	for i := range DefaultMaxSubscriptions {
		kind := enum.SubscriptionTick
		if i%2 == 1 {
			kind = enum.SubscriptionBidAsk
		}
		require.NoError(t, r.Subscribe(fmt.Sprintf("C%03d", i), kind))
	}
	require.Equal(t, DefaultMaxSubscriptions, r.Count())

	err := r.Subscribe("OVER", enum.SubscriptionTick)
	assert.True(t, errors.Is(err, exception.ErrCapacityExceeded))
	err = r.Subscribe("OVER", enum.SubscriptionBidAsk)
	assert.True(t, errors.Is(err, exception.ErrCapacityExceeded))

	assert.Equal(t, DefaultMaxSubscriptions, r.Count())
	_, ok := r.TickQueue("OVER")
	assert.False(t, ok)
	assert.Zero(t, quote.subs["tick:OVER"])

	require.NoError(t, r.Unsubscribe("C000", enum.SubscriptionTick))
	assert.NoError(t, r.Subscribe("OVER", enum.SubscriptionTick))
}

func TestSubscribeUnknownInstrument(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 0, nil)
	err := r.Subscribe("UNKNOWN", enum.SubscriptionTick)
	assert.True(t, errors.Is(err, exception.ErrUnknownInstrument))
	assert.Zero(t, r.Count())
}

func TestSubscribeCheckOrder(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 1, nil)
	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionTick))

	assert.True(t, errors.Is(r.Subscribe("TXFA4", enum.SubscriptionTick), exception.ErrAlreadySubscribed))
	assert.True(t, errors.Is(r.Subscribe("UNKNOWN", enum.SubscriptionTick), exception.ErrCapacityExceeded))
}

func TestSubscribeUpstreamFailureLeavesStateUnchanged(t *testing.T) {
	quote := newFakeQuote()
	quote.err = errors.New("session lost")
	r := NewRegistry(quote, anyResolver{}, 0, nil)

	err := r.Subscribe("TXFA4", enum.SubscriptionTick)
	assert.True(t, errors.Is(err, exception.ErrUpstreamUnavailable))
	assert.Zero(t, r.Count())
	_, ok := r.TickQueue("TXFA4")
	assert.False(t, ok)
}

func TestSubscribeRejectsInvalidInput(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 0, nil)
	assert.True(t, errors.Is(r.Subscribe("TXFA4", enum.SubscriptionKind(0)), exception.ErrUnsupportedKind))
	assert.True(t, errors.Is(r.Subscribe("", enum.SubscriptionTick), exception.ErrInvalidArgument))
}

func TestUnsubscribeClosesQueue(t *testing.T) {
	quote := newFakeQuote()
	r := NewRegistry(quote, anyResolver{}, 0, nil)
	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionBidAsk))

	q, ok := r.BidAskQueue("TXFA4")
	require.True(t, ok)

	require.NoError(t, r.Unsubscribe("TXFA4", enum.SubscriptionBidAsk))
	assert.True(t, q.Closed())
	assert.Zero(t, r.Count())
	assert.Equal(t, 1, quote.unsub)

	err := r.Unsubscribe("TXFA4", enum.SubscriptionBidAsk)
	assert.True(t, errors.Is(err, exception.ErrNotSubscribed))
}

func TestUnsubscribeUpstreamFailureStillTearsDown(t *testing.T) {
	quote := newFakeQuote()
	r := NewRegistry(quote, anyResolver{}, 0, nil)
	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionTick))
	q, _ := r.TickQueue("TXFA4")

	quote.mu.Lock()
	quote.err = errors.New("session lost")
	quote.mu.Unlock()

	require.NoError(t, r.Unsubscribe("TXFA4", enum.SubscriptionTick))
	assert.True(t, q.Closed())
	assert.Zero(t, r.Count())
}

func TestCloseAll(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 0, nil)
	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionTick))
	require.NoError(t, r.Subscribe("MXFA4", enum.SubscriptionBidAsk))
	tq, _ := r.TickQueue("TXFA4")
	bq, _ := r.BidAskQueue("MXFA4")

	r.CloseAll()
	r.CloseAll()

	assert.True(t, tq.Closed())
	assert.True(t, bq.Closed())
	assert.Zero(t, r.Count())
	assert.True(t, errors.Is(r.Subscribe("TXFA4", enum.SubscriptionTick), exception.ErrSubscriptionClosed))
}

func TestCodes(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 0, nil)
	require.NoError(t, r.Subscribe("TXFA4", enum.SubscriptionTick))
	require.NoError(t, r.Subscribe("MXFA4", enum.SubscriptionTick))
	require.NoError(t, r.Subscribe("2330", enum.SubscriptionBidAsk))

	assert.ElementsMatch(t, []string{"TXFA4", "MXFA4"}, r.Codes(enum.SubscriptionTick))
	assert.ElementsMatch(t, []string{"2330"}, r.Codes(enum.SubscriptionBidAsk))
}

func TestConcurrentSubscribeHonorsCeiling(t *testing.T) {
	r := NewRegistry(newFakeQuote(), anyResolver{}, 10, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Subscribe(fmt.Sprintf("C%02d", i), enum.SubscriptionTick)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, r.Count())
}
