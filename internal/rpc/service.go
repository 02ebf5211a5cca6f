// Package rpc exposes the bridge to clients: a transport-agnostic Service and
// its gRPC binding.
package rpc

import (
	"context"
	"slices"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/bus"
	"feedbridge/internal/directory"
	"feedbridge/internal/ingest"
	"feedbridge/internal/model"
	"feedbridge/internal/order"
	"feedbridge/internal/translate"
	"feedbridge/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Gate reports whether operations are currently allowed.
type Gate interface {
	Guard() error
}

// HistoryReader reads the journaled observations of one order.
type HistoryReader interface {
	History(orderID string) ([]model.Trade, error)
}

// Deps are the stores the service reads from and writes to.
type Deps struct {
	Account     broker.Account
	Directories *directory.Set
	Registry    *ingest.Registry
	Events      *bus.Queue[broker.FeedEvent]
	Orders      *order.Cache
	Usecase     *order.Usecase
	Gate        Gate

	// History is nil when the order journal is disabled.
	History HistoryReader
}

// Service implements every client operation. Streaming operations push
// through send until the client leaves or the bridge shuts down.
type Service struct {
	Deps
}

func NewService(deps Deps) *Service {
	return &Service{Deps: deps}
}

func (s *Service) guard() error {
	if s.Gate == nil {
		return nil
	}
	return s.Gate.Guard()
}

func (s *Service) ListStocks() ([]model.Contract, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.Directories.Stocks.All(), nil
}

func (s *Service) ListFutures() ([]model.Contract, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.Directories.Futures.All(), nil
}

func (s *Service) ListOptions() ([]model.Contract, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.Directories.Options.All(), nil
}

// HistoryKbars returns the bars of code between start and end, both
// formatted as 2006-01-02.
func (s *Service) HistoryKbars(code, start, end string) ([]model.Kbar, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	contract, ok := s.Directories.Resolve(code)
	if !ok {
		return nil, errors.Wrap(exception.ErrUnknownInstrument, code)
	}
	kbars, err := s.Account.Kbars(contract, start, end)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrUpstreamUnavailable, "kbars %s, err: %+v", code, err)
	}
	return translate.Kbars(code, kbars), nil
}

func (s *Service) VolumeRank(count int, date string) ([]model.VolumeRank, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "count: %d", count)
	}
	items, err := s.Account.ScannerVolumeRank(count, date)
	if err != nil {
		return nil, errors.Wrapf(exception.ErrUpstreamUnavailable, "volume rank, err: %+v", err)
	}
	return translate.VolumeRanks(items), nil
}

func (s *Service) Margin() (model.Margin, error) {
	if err := s.guard(); err != nil {
		return model.Margin{}, err
	}
	m, err := s.Account.Margin()
	if err != nil {
		return model.Margin{}, errors.Wrapf(exception.ErrUpstreamUnavailable, "margin, err: %+v", err)
	}
	return translate.Margin(m), nil
}

func (s *Service) FuturePositions() ([]model.FuturePosition, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	positions, err := s.Account.ListFuturePositions()
	if err != nil {
		return nil, errors.Wrapf(exception.ErrUpstreamUnavailable, "future positions, err: %+v", err)
	}
	out := make([]model.FuturePosition, 0, len(positions))
	for _, p := range positions {
		out = append(out, translate.FuturePosition(p))
	}
	return out, nil
}

func (s *Service) Usage() (model.Usage, error) {
	if err := s.guard(); err != nil {
		return model.Usage{}, err
	}
	u, err := s.Account.Usage()
	if err != nil {
		return model.Usage{}, errors.Wrapf(exception.ErrUpstreamUnavailable, "usage, err: %+v", err)
	}
	return translate.Usage(u), nil
}

// Subscriptions lists the live subscriptions against the capacity.
func (s *Service) Subscriptions() (SubscriptionList, error) {
	if err := s.guard(); err != nil {
		return SubscriptionList{}, err
	}
	ticks := s.Registry.Codes(enum.SubscriptionTick)
	bidAsks := s.Registry.Codes(enum.SubscriptionBidAsk)
	slices.Sort(ticks)
	slices.Sort(bidAsks)
	return SubscriptionList{
		Ticks:    ticks,
		BidAsks:  bidAsks,
		Count:    int32(s.Registry.Count()),
		MaxCount: int32(s.Registry.MaxCount()),
	}, nil
}

// PlaceOrder submits a future limit order.
func (s *Service) PlaceOrder(code string, action enum.OrderAction, price decimal.Decimal, qty int64) (model.Trade, error) {
	if err := s.guard(); err != nil {
		return model.Trade{}, err
	}
	switch action {
	case enum.OrderActionBuy:
		return s.Usecase.Buy(code, price, qty)
	case enum.OrderActionSell:
		return s.Usecase.Sell(code, price, qty)
	default:
		return model.Trade{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "action: %s", action)
	}
}

func (s *Service) CancelOrder(orderID string) (model.Trade, error) {
	if err := s.guard(); err != nil {
		return model.Trade{}, err
	}
	return s.Usecase.Cancel(orderID)
}

func (s *Service) GetTrade(orderID string) (model.Trade, error) {
	if err := s.guard(); err != nil {
		return model.Trade{}, err
	}
	t, ok := s.Orders.LookupRecord(orderID)
	if !ok {
		return model.Trade{}, errors.Wrap(exception.ErrOrderNotFound, orderID)
	}
	return t, nil
}

// TradeHistory returns every journaled observation of orderID, oldest first.
func (s *Service) TradeHistory(orderID string) ([]model.Trade, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if s.History == nil {
		return nil, errors.Wrap(exception.ErrJournalDisabled, orderID)
	}
	trades, err := s.History.History(orderID)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, errors.Wrap(exception.ErrOrderNotFound, orderID)
	}
	return trades, nil
}

// PublishTrades requests a non-blocking refresh whose orders land on the
// trade stream.
func (s *Service) PublishTrades() error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.Orders.RefreshAsync(nil)
}

// SubscribeEvents streams upstream session events.
func (s *Service) SubscribeEvents(ctx context.Context, send func(model.FeedEvent) error) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.Events.Run(ctx, func(event broker.FeedEvent) error {
		return send(translate.FeedEvent(event))
	})
}

// SubscribeTrades streams every published order record.
func (s *Service) SubscribeTrades(ctx context.Context, send func(model.Trade) error) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.Orders.Queue().Run(ctx, send)
}

// SubscribeTick subscribes code, streams its ticks and unsubscribes when the
// stream ends.
func (s *Service) SubscribeTick(ctx context.Context, code string, send func(model.Tick) error) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Registry.Subscribe(code, enum.SubscriptionTick); err != nil {
		return err
	}
	defer s.unsubscribe(code, enum.SubscriptionTick)

	q, ok := s.Registry.TickQueue(code)
	if !ok {
		return errors.Wrap(exception.ErrNotSubscribed, code)
	}
	return q.Run(ctx, func(tick broker.Tick) error {
		return send(translate.Tick(tick))
	})
}

// SubscribeBidAsk subscribes code, streams its bid/ask and unsubscribes when
// the stream ends.
func (s *Service) SubscribeBidAsk(ctx context.Context, code string, send func(model.BidAsk) error) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.Registry.Subscribe(code, enum.SubscriptionBidAsk); err != nil {
		return err
	}
	defer s.unsubscribe(code, enum.SubscriptionBidAsk)

	q, ok := s.Registry.BidAskQueue(code)
	if !ok {
		return errors.Wrap(exception.ErrNotSubscribed, code)
	}
	return q.Run(ctx, func(bidAsk broker.BidAsk) error {
		return send(translate.BidAsk(bidAsk))
	})
}

func (s *Service) unsubscribe(code string, kind enum.SubscriptionKind) {
	if err := s.Registry.Unsubscribe(code, kind); err != nil && !exception.Is(err, exception.ErrNotSubscribed) {
		logs.Warnf("unsubscribe %s %s, err: %+v", kind, code, err)
	}
}
