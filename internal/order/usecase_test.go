package order

import (
	"errors"
	"testing"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker/sim"
	"feedbridge/internal/directory"
	"feedbridge/internal/ingest"
	"feedbridge/internal/risk"
	"feedbridge/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T, cfg risk.Config) (*sim.Client, *Cache, *Usecase) {
	t.Helper()

	client := sim.NewClient(sim.DefaultOption())
	dirs := directory.NewSet()
	dirs.Load(client.Contracts())

	cache := NewCache(client)
	registry := ingest.NewRegistry(client, dirs, 0, nil)
	client.SetFeedHandler(ingest.NewDispatcher(registry, cache, nil))

	return client, cache, NewUsecase(client, dirs.Futures, cache, risk.NewEngine(cfg))
}

func TestBuyRefreshesCacheThroughOrderEvent(t *testing.T) {
	_, cache, use := newUsecase(t, risk.Config{})

	trade, err := use.Buy("TXFA4", decimal.NewFromInt(17500), 2)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderActionBuy, trade.Action)
	assert.Equal(t, enum.OrderTypeFuture, trade.Type)
	assert.Equal(t, enum.OrderStatusSubmitted, trade.Status)
	assert.EqualValues(t, 2, trade.Quantity)

	record, ok := cache.LookupRecord(trade.OrderID)
	require.True(t, ok)
	assert.Equal(t, "TXFA4", record.Code)

	published, ok := cache.Queue().TryPop()
	require.True(t, ok)
	assert.Equal(t, trade.OrderID, published.OrderID)
}

func TestSellUnknownContract(t *testing.T) {
	_, _, use := newUsecase(t, risk.Config{})

	_, err := use.Sell("2330", decimal.NewFromInt(580), 1)
	assert.True(t, errors.Is(err, exception.ErrUnknownInstrument))
}

func TestPlaceRejectedByRisk(t *testing.T) {
	client, cache, use := newUsecase(t, risk.Config{MaxOrderQty: 1})

	_, err := use.Buy("TXFA4", decimal.NewFromInt(17500), 5)
	assert.True(t, errors.Is(err, exception.ErrRiskRejected))
	assert.Zero(t, cache.Len())
	assert.Zero(t, client.ListCalls())
}

func TestPlaceUpstreamFailure(t *testing.T) {
	client, _, use := newUsecase(t, risk.Config{})
	client.SetPlaceOrderError(errors.New("rejected by exchange"))

	_, err := use.Buy("TXFA4", decimal.NewFromInt(17500), 1)
	assert.True(t, errors.Is(err, exception.ErrUpstreamUnavailable))
}

func TestCancel(t *testing.T) {
	_, cache, use := newUsecase(t, risk.Config{})

	_, err := use.Cancel("missing")
	assert.True(t, errors.Is(err, exception.ErrOrderNotFound))

	placed, err := use.Sell("MXFA4", decimal.NewFromInt(17480), 1)
	require.NoError(t, err)

	cancelled, err := use.Cancel(placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)

	record, ok := cache.LookupRecord(placed.OrderID)
	require.True(t, ok)
	assert.Equal(t, enum.OrderStatusCancelled, record.Status)

	_, err = use.Cancel(placed.OrderID)
	assert.True(t, errors.Is(err, exception.ErrAlreadyCancelled))
}
