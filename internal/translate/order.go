// Package translate maps upstream broker shapes onto the normalized records
// served to clients. Every function is pure apart from correction logging.
package translate

import (
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"
)

// rolloverHourEnd bounds the overnight window [0, rolloverHourEnd) in which
// the upstream stamps orders with the previous session's date.
const rolloverHourEnd = 5

// Trade normalizes an upstream trade. now is the reference for timestamp
// correction.
func Trade(t broker.Trade, now time.Time) model.Trade {
	orderTime, corrected := OrderTime(t, now)
	if corrected {
		logs.Warnf("order %s has no order time, set to now", t.Status.ID)
	}

	return model.Trade{
		Type:           OrderType(t),
		Code:           t.Contract.Code,
		OrderID:        t.Order.ID,
		Action:         Action(t.Order.Action),
		Price:          Price(t),
		RequestedPrice: decimal.NewFromFloat(t.Order.Price),
		Quantity:       t.Order.Quantity,
		FilledQuantity: t.Status.DealQuantity,
		Status:         Status(t.Status.Status),
		OrderTime:      orderTime,
	}
}

// OrderTime resolves the order timestamp. A missing timestamp becomes now and
// corrected is reported. An early-morning stamp whose date is not today's is
// moved forward one calendar day.
func OrderTime(t broker.Trade, now time.Time) (ts time.Time, corrected bool) {
	if t.Status.OrderTime == nil || t.Status.OrderTime.IsZero() {
		return now, true
	}

	ts = *t.Status.OrderTime
	if ts.Hour() < rolloverHourEnd && !sameDate(ts, now.In(ts.Location())) {
		ts = ts.AddDate(0, 0, 1)
	}
	return ts, false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Price returns the modified price when the upstream reports one, otherwise
// the requested price.
func Price(t broker.Trade) decimal.Decimal {
	if t.Status.ModifiedPrice != 0 {
		return decimal.NewFromFloat(t.Status.ModifiedPrice)
	}
	return decimal.NewFromFloat(t.Order.Price)
}

func OrderType(t broker.Trade) enum.OrderType {
	switch t.Contract.SecurityType {
	case enum.SecurityStock:
		switch t.Order.OrderLot {
		case broker.OrderLotOdd, broker.OrderLotIntradayOdd:
			return enum.OrderTypeStockShare
		default:
			return enum.OrderTypeStockLot
		}
	case enum.SecurityFuture:
		return enum.OrderTypeFuture
	default:
		return enum.OrderTypeUnknown
	}
}

func Action(action string) enum.OrderAction {
	switch action {
	case broker.ActionBuy:
		return enum.OrderActionBuy
	case broker.ActionSell:
		return enum.OrderActionSell
	default:
		return enum.OrderActionUnknown
	}
}

func Status(status string) enum.OrderStatus {
	switch status {
	case broker.StatusCancelled:
		return enum.OrderStatusCancelled
	case broker.StatusFilled:
		return enum.OrderStatusFilled
	case broker.StatusPartFilled:
		return enum.OrderStatusPartFilled
	case broker.StatusInactive:
		return enum.OrderStatusInactive
	case broker.StatusFailed:
		return enum.OrderStatusFailed
	case broker.StatusPendingSubmit:
		return enum.OrderStatusPendingSubmit
	case broker.StatusPreSubmitted:
		return enum.OrderStatusPreSubmitted
	case broker.StatusSubmitted:
		return enum.OrderStatusSubmitted
	default:
		return enum.OrderStatusUnknown
	}
}
