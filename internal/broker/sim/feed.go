package sim

import (
	"context"
	"math/rand/v2"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
)

// EmitTick pushes a tick through the registered handler on the caller's
// goroutine.
func (c *Client) EmitTick(tick broker.Tick) {
	if h := c.feedHandler(); h != nil {
		h.OnTick(tick)
	}
}

func (c *Client) EmitBidAsk(bidAsk broker.BidAsk) {
	if h := c.feedHandler(); h != nil {
		h.OnBidAsk(bidAsk)
	}
}

func (c *Client) EmitFeedEvent(event broker.FeedEvent) {
	if h := c.feedHandler(); h != nil {
		h.OnFeedEvent(event)
	}
}

func (c *Client) EmitOrderEvent(state broker.OrderState, msg map[string]any) {
	if h := c.feedHandler(); h != nil {
		h.OnOrderEvent(state, msg)
	}
}

func (c *Client) feedHandler() broker.FeedHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler
}

// Run generates a random-walk tick and bid/ask for every live subscription on
// each interval until ctx is done.
func (c *Client) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := make(map[string]float64)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		live := make(map[subKey]broker.Contract, len(c.subs))
		for k, v := range c.subs {
			live[k] = v
		}
		c.mu.Unlock()

		now := c.opt.Now()
		for key, contract := range live {
			price, ok := last[key.code]
			if !ok {
				price = contract.Reference
			}
			price += float64(rand.IntN(3)-1) * tickSize(price)
			last[key.code] = price

			switch key.kind {
			case enum.SubscriptionTick:
				c.EmitTick(broker.Tick{
					Code:     key.code,
					DateTime: now,
					Open:     contract.Reference,
					Close:    price,
					High:     max(price, contract.Reference),
					Low:      min(price, contract.Reference),
					PriceChg: price - contract.Reference,
					Volume:   int64(rand.IntN(10) + 1),
					TickType: int32(rand.IntN(2) + 1),
				})
			case enum.SubscriptionBidAsk:
				step := tickSize(price)
				c.EmitBidAsk(broker.BidAsk{
					Code:      key.code,
					DateTime:  now,
					BidPrice:  []float64{price - step, price - 2*step, price - 3*step, price - 4*step, price - 5*step},
					BidVolume: []int64{5, 8, 13, 21, 34},
					AskPrice:  []float64{price + step, price + 2*step, price + 3*step, price + 4*step, price + 5*step},
					AskVolume: []int64{4, 7, 12, 20, 33},
				})
			}
		}
	}
}

func tickSize(price float64) float64 {
	switch {
	case price < 10:
		return 0.01
	case price < 50:
		return 0.05
	case price < 100:
		return 0.1
	case price < 500:
		return 0.5
	case price < 1000:
		return 1
	default:
		return 5
	}
}
