package rpc

import (
	"context"
	"testing"
	"time"

	"feedbridge/internal/broker"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeBidAskTranslatesOnSend(t *testing.T) {
	b := newBridge(t, true)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	got := make(chan model.BidAsk, 1)
	done := make(chan error, 1)
	go func() {
		done <- b.svc.SubscribeBidAsk(ctx, "2330", func(v model.BidAsk) error {
			got <- v
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		return b.registry.Count() == 1
	}, time.Second, 5*time.Millisecond)

	b.sim.EmitBidAsk(broker.BidAsk{
		Code:      "2330",
		BidPrice:  []float64{579, 578.5},
		BidVolume: []int64{10, 20},
		AskPrice:  []float64{580},
		AskVolume: []int64{5},
	})

	select {
	case v := <-got:
		assert.Equal(t, "2330", v.Code)
		require.Len(t, v.BidPrice, 2)
		assert.True(t, decimal.RequireFromString("578.5").Equal(v.BidPrice[1]))
		assert.Equal(t, []int64{10, 20}, v.BidVolume)
	case <-time.After(time.Second):
		t.Fatal("bid/ask never reached the consumer")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after cancel")
	}
	assert.Zero(t, b.registry.Count())
}

func TestStreamEndsCleanlyOnShutdown(t *testing.T) {
	b := newBridge(t, true)

	done := make(chan error, 1)
	go func() {
		done <- b.svc.SubscribeTick(t.Context(), "TXFA4", func(model.Tick) error { return nil })
	}()

	require.Eventually(t, func() bool {
		return b.registry.Count() == 1
	}, time.Second, 5*time.Millisecond)

	b.controller.Shutdown()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not end on shutdown")
	}
}
