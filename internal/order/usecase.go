package order

import (
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/model"
	"feedbridge/internal/risk"
	"feedbridge/internal/translate"
	"feedbridge/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// ContractLookup resolves a code in the future directory.
type ContractLookup interface {
	Lookup(code string) (broker.Contract, bool)
}

// Usecase places and cancels future limit orders.
type Usecase struct {
	trader  broker.Trader
	futures ContractLookup
	cache   *Cache
	risk    *risk.Engine
	now     func() time.Time
}

func NewUsecase(trader broker.Trader, futures ContractLookup, cache *Cache, engine *risk.Engine) *Usecase {
	return &Usecase{
		trader:  trader,
		futures: futures,
		cache:   cache,
		risk:    engine,
		now:     time.Now,
	}
}

func (use *Usecase) Buy(code string, price decimal.Decimal, qty int64) (model.Trade, error) {
	return use.place(code, enum.OrderActionBuy, price, qty)
}

func (use *Usecase) Sell(code string, price decimal.Decimal, qty int64) (model.Trade, error) {
	return use.place(code, enum.OrderActionSell, price, qty)
}

func (use *Usecase) place(code string, action enum.OrderAction, price decimal.Decimal, qty int64) (model.Trade, error) {
	contract, ok := use.futures.Lookup(code)
	if !ok {
		return model.Trade{}, errors.Wrap(exception.ErrUnknownInstrument, code)
	}

	now := use.now()
	if err := use.risk.Evaluate(risk.Request{
		Code:       code,
		Action:     action,
		Price:      price,
		Quantity:   qty,
		Multiplier: contract.Multiplier,
		Reference:  decimal.NewFromFloat(contract.Reference),
	}, now); err != nil {
		return model.Trade{}, err
	}

	side := broker.ActionBuy
	if action == enum.OrderActionSell {
		side = broker.ActionSell
	}

	trade, err := use.trader.PlaceOrder(contract, broker.OrderRequest{
		Action:    side,
		Price:     price.InexactFloat64(),
		Quantity:  qty,
		PriceType: broker.PriceTypeLMT,
		OrderType: broker.OrderTypeROD,
		OCType:    broker.OCTypeAuto,
	})
	if err != nil {
		return model.Trade{}, errors.Wrapf(exception.ErrUpstreamUnavailable, "place order %s %s, err: %+v", side, code, err)
	}

	logs.Infof("place order: %s %s %s %d %s", side, code, price, qty, trade.Order.ID)
	return translate.Trade(trade, now), nil
}

// Cancel cancels a cached order.
func (use *Usecase) Cancel(orderID string) (model.Trade, error) {
	trade, ok := use.cache.Lookup(orderID)
	if !ok {
		return model.Trade{}, errors.Wrap(exception.ErrOrderNotFound, orderID)
	}
	if trade.Status.Status == broker.StatusCancelled {
		return model.Trade{}, errors.Wrap(exception.ErrAlreadyCancelled, orderID)
	}

	cancelled, err := use.trader.CancelOrder(trade)
	if err != nil {
		return model.Trade{}, errors.Wrapf(exception.ErrUpstreamUnavailable, "cancel order %s, err: %+v", orderID, err)
	}

	logs.Infof("cancel order: %s %s", trade.Contract.Code, orderID)
	return translate.Trade(cancelled, use.now()), nil
}
