package translate

import (
	"testing"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var taipei = time.FixedZone("CST", 8*60*60)

func tradeAt(ts *time.Time) broker.Trade {
	return broker.Trade{
		Contract: broker.Contract{SecurityType: enum.SecurityFuture, Code: "TXFA4"},
		Order:    broker.Order{ID: "o-1", Action: broker.ActionBuy, Price: 17000, Quantity: 2},
		Status:   broker.OrderStatus{ID: "o-1", Status: broker.StatusSubmitted, OrderTime: ts},
	}
}

func TestOrderTimeRollover(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, taipei)

	testCases := []struct {
		desc string
		ts   time.Time
		want time.Time
	}{
		{
			desc: "overnight stamp from yesterday advances one day",
			ts:   time.Date(2024, 1, 9, 2, 15, 0, 0, taipei),
			want: time.Date(2024, 1, 10, 2, 15, 0, 0, taipei),
		},
		{
			desc: "afternoon stamp keeps its day",
			ts:   time.Date(2024, 1, 9, 14, 0, 0, 0, taipei),
			want: time.Date(2024, 1, 9, 14, 0, 0, 0, taipei),
		},
		{
			desc: "overnight stamp already dated today is kept",
			ts:   time.Date(2024, 1, 10, 1, 0, 0, 0, taipei),
			want: time.Date(2024, 1, 10, 1, 0, 0, 0, taipei),
		},
		{
			desc: "hour five is outside the rollover window",
			ts:   time.Date(2024, 1, 9, 5, 0, 0, 0, taipei),
			want: time.Date(2024, 1, 9, 5, 0, 0, 0, taipei),
		},
		{
			desc: "midnight rolls across a month boundary",
			ts:   time.Date(2024, 1, 31, 0, 0, 0, 0, taipei),
			want: time.Date(2024, 2, 1, 0, 0, 0, 0, taipei),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ts := tc.ts
			got, corrected := OrderTime(tradeAt(&ts), now)
			assert.False(t, corrected)
			assert.True(t, tc.want.Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestOrderTimeMissingUsesNow(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, taipei)

	got, corrected := OrderTime(tradeAt(nil), now)
	assert.True(t, corrected)
	assert.True(t, now.Equal(got))

	record := Trade(tradeAt(nil), now)
	assert.True(t, now.Equal(record.OrderTime))
}

func TestPriceOverride(t *testing.T) {
	tr := tradeAt(nil)
	tr.Order.Price = 12.25

	tr.Status.ModifiedPrice = 0
	assert.True(t, decimal.NewFromFloat(12.25).Equal(Price(tr)))

	tr.Status.ModifiedPrice = 37.5
	assert.True(t, decimal.NewFromFloat(37.5).Equal(Price(tr)))

	record := Trade(tr, time.Now())
	assert.True(t, decimal.NewFromFloat(37.5).Equal(record.Price))
	assert.True(t, decimal.NewFromFloat(12.25).Equal(record.RequestedPrice))
}

func TestEnumsMapUnknownToSentinel(t *testing.T) {
	assert.Equal(t, enum.OrderActionUnknown, Action("Hold"))
	assert.Equal(t, enum.OrderStatusUnknown, Status("Exploded"))
	assert.Equal(t, enum.FetchStatusUnknown, FetchStatus(""))

	tr := tradeAt(nil)
	tr.Contract.SecurityType = enum.SecurityOption
	assert.Equal(t, enum.OrderTypeUnknown, OrderType(tr))
}

func TestStatusTable(t *testing.T) {
	table := map[string]enum.OrderStatus{
		broker.StatusPendingSubmit: enum.OrderStatusPendingSubmit,
		broker.StatusPreSubmitted:  enum.OrderStatusPreSubmitted,
		broker.StatusSubmitted:     enum.OrderStatusSubmitted,
		broker.StatusPartFilled:    enum.OrderStatusPartFilled,
		broker.StatusFilled:        enum.OrderStatusFilled,
		broker.StatusCancelled:     enum.OrderStatusCancelled,
		broker.StatusFailed:        enum.OrderStatusFailed,
		broker.StatusInactive:      enum.OrderStatusInactive,
	}
	for raw, want := range table {
		assert.Equal(t, want, Status(raw), raw)
	}
}

func TestOrderTypeStockLots(t *testing.T) {
	tr := tradeAt(nil)
	tr.Contract.SecurityType = enum.SecurityStock

	tr.Order.OrderLot = broker.OrderLotCommon
	assert.Equal(t, enum.OrderTypeStockLot, OrderType(tr))
	tr.Order.OrderLot = broker.OrderLotIntradayOdd
	assert.Equal(t, enum.OrderTypeStockShare, OrderType(tr))
	tr.Order.OrderLot = broker.OrderLotOdd
	assert.Equal(t, enum.OrderTypeStockShare, OrderType(tr))
}

func TestTradeCarriesQuantities(t *testing.T) {
	tr := tradeAt(nil)
	tr.Status.DealQuantity = 1

	record := Trade(tr, time.Now())
	assert.Equal(t, "TXFA4", record.Code)
	assert.Equal(t, "o-1", record.OrderID)
	assert.Equal(t, enum.OrderActionBuy, record.Action)
	assert.Equal(t, enum.OrderTypeFuture, record.Type)
	assert.Equal(t, enum.OrderStatusSubmitted, record.Status)
	assert.EqualValues(t, 2, record.Quantity)
	assert.EqualValues(t, 1, record.FilledQuantity)
}
