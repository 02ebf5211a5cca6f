// Package sim is an in-memory broker used in simulation mode and by tests.
// It follows the upstream's callback shape: readiness acknowledgements and
// market data arrive on goroutines the caller does not own.
package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"

	"github.com/yanun0323/errors"
)

const version = "sim-1.0.0"

type subKey struct {
	code string
	kind enum.SubscriptionKind
}

// Option tunes a simulated client.
type Option struct {
	Contracts     broker.Contracts
	StockSigned   bool
	FutOptSigned  bool
	ReadyDelay    time.Duration
	ReadyTypes    []enum.SecurityType
	Now           func() time.Time
	DisableEvents bool
}

// DefaultOption returns a fully signed account with the default catalog.
func DefaultOption() Option {
	return Option{
		Contracts:    DefaultContracts(),
		StockSigned:  true,
		FutOptSigned: true,
		ReadyTypes:   enum.SecurityTypes(),
	}
}

// Client implements broker.Client without any network.
type Client struct {
	opt Option

	mu          sync.Mutex
	handler     broker.FeedHandler
	subs        map[subKey]broker.Contract
	trades      []broker.Trade
	loggedIn    bool
	loginErr    error
	caErr       error
	subErr      error
	logoutErr   error
	listErr     []error
	updateErr   error
	placeErr    error
	listCalls   int
	logoutCalls int

	orderSeq atomic.Int64
}

// NewClient builds a simulated client.
func NewClient(opt Option) *Client {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.ReadyTypes == nil {
		opt.ReadyTypes = enum.SecurityTypes()
	}
	return &Client{
		opt:  opt,
		subs: make(map[subKey]broker.Contract),
	}
}

func (c *Client) Version() string {
	return version
}

func (c *Client) SetFeedHandler(handler broker.FeedHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Login acknowledges every configured security type on a separate goroutine.
func (c *Client) Login(ctx context.Context, cred broker.Credentials, onReady func(enum.SecurityType)) error {
	c.mu.Lock()
	err := c.loginErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if cred.APIKey == "" || cred.APISecret == "" {
		return errors.New("sim: empty credentials")
	}

	c.mu.Lock()
	c.loggedIn = true
	c.mu.Unlock()

	types := append([]enum.SecurityType(nil), c.opt.ReadyTypes...)
	go func() {
		for _, t := range types {
			if c.opt.ReadyDelay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.opt.ReadyDelay):
				}
			}
			if onReady != nil {
				onReady(t)
			}
		}
	}()
	return nil
}

func (c *Client) ActivateCA(path, password, personID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caErr
}

func (c *Client) AccountsSigned() (bool, bool) {
	return c.opt.StockSigned, c.opt.FutOptSigned
}

func (c *Client) Contracts() broker.Contracts {
	return c.opt.Contracts
}

func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutCalls++
	if c.logoutErr != nil {
		return c.logoutErr
	}
	c.loggedIn = false
	return nil
}

func (c *Client) Subscribe(contract broker.Contract, kind enum.SubscriptionKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subErr != nil {
		return c.subErr
	}
	if !c.known(contract.Code) {
		return errors.Wrap(ErrUnknownContract, contract.Code)
	}
	c.subs[subKey{code: contract.Code, kind: kind}] = contract
	return nil
}

func (c *Client) Unsubscribe(contract broker.Contract, kind enum.SubscriptionKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := subKey{code: contract.Code, kind: kind}
	if _, ok := c.subs[key]; !ok {
		return errors.Wrap(ErrNotSubscribed, contract.Code)
	}
	delete(c.subs, key)
	return nil
}

// Subscribed reports whether the upstream side holds the subscription.
func (c *Client) Subscribed(code string, kind enum.SubscriptionKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.subs[subKey{code: code, kind: kind}]
	return ok
}

func (c *Client) known(code string) bool {
	for _, group := range [][][]broker.Contract{c.opt.Contracts.Futures, c.opt.Contracts.Options, c.opt.Contracts.Stocks} {
		for _, category := range group {
			for _, contract := range category {
				if contract.Code == code {
					return true
				}
			}
		}
	}
	return false
}

func (c *Client) PlaceOrder(contract broker.Contract, req broker.OrderRequest) (broker.Trade, error) {
	c.mu.Lock()
	if c.placeErr != nil {
		err := c.placeErr
		c.mu.Unlock()
		return broker.Trade{}, err
	}
	if !c.known(contract.Code) {
		c.mu.Unlock()
		return broker.Trade{}, errors.Wrap(ErrUnknownContract, contract.Code)
	}

	id := fmt.Sprintf("%08x", c.orderSeq.Add(1))
	now := c.opt.Now()
	trade := broker.Trade{
		Contract: contract,
		Order: broker.Order{
			ID:        id,
			Action:    req.Action,
			Price:     req.Price,
			Quantity:  req.Quantity,
			OrderLot:  broker.OrderLotCommon,
			PriceType: req.PriceType,
			OrderType: req.OrderType,
			OCType:    req.OCType,
		},
		Status: broker.OrderStatus{
			ID:        id,
			Status:    broker.StatusSubmitted,
			OrderTime: &now,
		},
	}
	c.trades = append(c.trades, trade)
	c.mu.Unlock()

	c.emitOrder(trade, "New")
	return trade, nil
}

func (c *Client) CancelOrder(trade broker.Trade) (broker.Trade, error) {
	c.mu.Lock()
	idx := c.indexOf(trade.Order.ID)
	if idx < 0 {
		c.mu.Unlock()
		return broker.Trade{}, errors.Wrap(ErrUnknownOrder, trade.Order.ID)
	}
	c.trades[idx].Status.Status = broker.StatusCancelled
	c.trades[idx].Status.CancelQuantity = c.trades[idx].Order.Quantity - c.trades[idx].Status.DealQuantity
	updated := c.trades[idx]
	c.mu.Unlock()

	c.emitOrder(updated, "Cancel")
	return updated, nil
}

// Fill marks qty of an order as dealt and emits a deal callback.
func (c *Client) Fill(orderID string, qty int64) error {
	c.mu.Lock()
	idx := c.indexOf(orderID)
	if idx < 0 {
		c.mu.Unlock()
		return errors.Wrap(ErrUnknownOrder, orderID)
	}
	t := &c.trades[idx]
	t.Status.DealQuantity = min(t.Order.Quantity, t.Status.DealQuantity+qty)
	if t.Status.DealQuantity == t.Order.Quantity {
		t.Status.Status = broker.StatusFilled
	} else {
		t.Status.Status = broker.StatusPartFilled
	}
	updated := *t
	handler := c.handler
	c.mu.Unlock()

	if handler == nil || c.opt.DisableEvents {
		return nil
	}
	state := broker.OrderStateStockDeal
	if updated.Contract.SecurityType == enum.SecurityFuture || updated.Contract.SecurityType == enum.SecurityOption {
		state = broker.OrderStateFuturesDeal
	}
	handler.OnOrderEvent(state, map[string]any{
		"trade_id": updated.Order.ID,
		"code":     updated.Contract.Code,
		"action":   updated.Order.Action,
		"price":    updated.Order.Price,
		"quantity": qty,
	})
	return nil
}

func (c *Client) indexOf(orderID string) int {
	for i := range c.trades {
		if c.trades[i].Order.ID == orderID {
			return i
		}
	}
	return -1
}

func (c *Client) emitOrder(trade broker.Trade, op string) {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	if handler == nil || c.opt.DisableEvents {
		return
	}

	state := broker.OrderStateStockOrder
	if trade.Contract.SecurityType == enum.SecurityFuture || trade.Contract.SecurityType == enum.SecurityOption {
		state = broker.OrderStateFuturesOrder
	}
	handler.OnOrderEvent(state, map[string]any{
		"operation": map[string]any{"op_type": op, "op_code": "00"},
		"order": map[string]any{
			"id":       trade.Order.ID,
			"action":   trade.Order.Action,
			"price":    trade.Order.Price,
			"quantity": trade.Order.Quantity,
		},
		"contract": map[string]any{"code": trade.Contract.Code},
	})
}

func (c *Client) UpdateStatus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateErr
}

// ListTrades returns a copy of the authoritative order list. Queued failures
// from FailListTrades are consumed one per call.
func (c *Client) ListTrades() ([]broker.Trade, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if len(c.listErr) != 0 {
		err := c.listErr[0]
		c.listErr = c.listErr[1:]
		return nil, err
	}
	return append([]broker.Trade(nil), c.trades...), nil
}

func (c *Client) UpdateStatusAsync(cb func([]broker.Trade)) error {
	c.mu.Lock()
	if c.updateErr != nil {
		err := c.updateErr
		c.mu.Unlock()
		return err
	}
	trades := append([]broker.Trade(nil), c.trades...)
	c.mu.Unlock()

	go cb(trades)
	return nil
}

func (c *Client) Kbars(contract broker.Contract, start, end string) (broker.Kbars, error) {
	if !c.known(contract.Code) {
		return broker.Kbars{}, errors.Wrap(ErrUnknownContract, contract.Code)
	}
	from, err := time.ParseInLocation(time.DateOnly, start, time.Local)
	if err != nil {
		return broker.Kbars{}, errors.Wrapf(err, "parse start %s", start)
	}
	to, err := time.ParseInLocation(time.DateOnly, end, time.Local)
	if err != nil {
		return broker.Kbars{}, errors.Wrapf(err, "parse end %s", end)
	}

	var bars broker.Kbars
	price := contract.Reference
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		open := day.Add(9 * time.Hour)
		for m := 0; m < 5; m++ {
			ts := open.Add(time.Duration(m) * time.Minute)
			step := float64((m%3)-1) * 0.5
			bars.Ts = append(bars.Ts, ts.UnixNano())
			bars.Open = append(bars.Open, price)
			bars.High = append(bars.High, price+1)
			bars.Low = append(bars.Low, price-1)
			bars.Close = append(bars.Close, price+step)
			bars.Volume = append(bars.Volume, int64(10+m))
			price += step
		}
	}
	return bars, nil
}

func (c *Client) Margin() (broker.Margin, error) {
	return broker.Margin{
		Status:            broker.FetchStatusFetched,
		YesterdayBalance:  1_000_000,
		TodayBalance:      1_000_000,
		Equity:            1_000_000,
		EquityAmount:      1_000_000,
		InitialMargin:     0,
		MaintenanceMargin: 0,
		AvailableMargin:   1_000_000,
		RiskIndicator:     999,
	}, nil
}

// ListFuturePositions aggregates filled future orders by code.
func (c *Client) ListFuturePositions() ([]broker.FuturePosition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	net := make(map[string]int64)
	price := make(map[string]float64)
	for _, t := range c.trades {
		if t.Contract.SecurityType != enum.SecurityFuture || t.Status.DealQuantity == 0 {
			continue
		}
		qty := t.Status.DealQuantity
		if t.Order.Action == broker.ActionSell {
			qty = -qty
		}
		net[t.Contract.Code] += qty
		price[t.Contract.Code] = t.Order.Price
	}

	codes := make([]string, 0, len(net))
	for code, qty := range net {
		if qty != 0 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	out := make([]broker.FuturePosition, 0, len(codes))
	for i, code := range codes {
		qty := net[code]
		direction := broker.ActionBuy
		if qty < 0 {
			direction = broker.ActionSell
			qty = -qty
		}
		out = append(out, broker.FuturePosition{
			ID:        int64(i),
			Code:      code,
			Direction: direction,
			Quantity:  qty,
			Price:     price[code],
			LastPrice: price[code],
		})
	}
	return out, nil
}

// ScannerVolumeRank ranks stocks outside category "00" by a synthetic volume.
func (c *Client) ScannerVolumeRank(count int, date string) ([]broker.ScannerItem, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, errors.Wrapf(err, "parse date %s", date)
	}

	var items []broker.ScannerItem
	for _, category := range c.opt.Contracts.Stocks {
		for _, contract := range category {
			if contract.Category == "00" {
				continue
			}
			items = append(items, broker.ScannerItem{Code: contract.Code, TotalVolume: int64(contract.Reference * 100)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].TotalVolume > items[j].TotalVolume })
	if count >= 0 && count < len(items) {
		items = items[:count]
	}
	return items, nil
}

func (c *Client) Usage() (broker.Usage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return broker.Usage{
		Connections:    1,
		Bytes:          int64(c.listCalls) * 512,
		LimitBytes:     500 * 1024 * 1024,
		RemainingBytes: 500*1024*1024 - int64(c.listCalls)*512,
	}, nil
}

var _ broker.Client = (*Client)(nil)
