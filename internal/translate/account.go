package translate

import (
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
)

func Contract(c broker.Contract) model.Contract {
	return model.Contract{
		SecurityType:         c.SecurityType,
		Code:                 c.Code,
		Symbol:               c.Symbol,
		Name:                 c.Name,
		Category:             c.Category,
		Currency:             c.Currency,
		Exchange:             c.Exchange,
		DayTrade:             c.DayTrade,
		DeliveryDate:         c.DeliveryDate,
		DeliveryMonth:        c.DeliveryMonth,
		OptionRight:          c.OptionRight,
		TargetCode:           c.TargetCode,
		UnderlyingCode:       c.UnderlyingCode,
		UnderlyingKind:       c.UnderlyingKind,
		UpdateDate:           c.UpdateDate,
		LimitUp:              decimal.NewFromFloat(c.LimitUp),
		LimitDown:            decimal.NewFromFloat(c.LimitDown),
		Reference:            decimal.NewFromFloat(c.Reference),
		StrikePrice:          decimal.NewFromFloat(c.StrikePrice),
		Multiplier:           c.Multiplier,
		Unit:                 c.Unit,
		MarginTradingBalance: c.MarginTradingBalance,
		ShortSellingBalance:  c.ShortSellingBalance,
	}
}

// Kbars flattens the column-oriented upstream bars. Columns shorter than the
// timestamp column are treated as zero.
func Kbars(code string, k broker.Kbars) []model.Kbar {
	out := make([]model.Kbar, 0, len(k.Ts))
	for i, ts := range k.Ts {
		out = append(out, model.Kbar{
			Code:     code,
			KbarTime: time.Unix(0, ts),
			Open:     decimal.NewFromFloat(at(k.Open, i)),
			High:     decimal.NewFromFloat(at(k.High, i)),
			Low:      decimal.NewFromFloat(at(k.Low, i)),
			Close:    decimal.NewFromFloat(at(k.Close, i)),
			Volume:   at(k.Volume, i),
		})
	}
	return out
}

func at[T any](col []T, i int) T {
	var zero T
	if i < len(col) {
		return col[i]
	}
	return zero
}

func VolumeRanks(items []broker.ScannerItem) []model.VolumeRank {
	out := make([]model.VolumeRank, 0, len(items))
	for _, item := range items {
		out = append(out, model.VolumeRank{Code: item.Code, Volume: item.TotalVolume})
	}
	return out
}

func FetchStatus(status string) enum.FetchStatus {
	switch status {
	case broker.FetchStatusFetched:
		return enum.FetchStatusFetched
	case broker.FetchStatusFetching:
		return enum.FetchStatusFetching
	case broker.FetchStatusUnfetch:
		return enum.FetchStatusUnfetch
	default:
		return enum.FetchStatusUnknown
	}
}

func FuturePosition(p broker.FuturePosition) model.FuturePosition {
	return model.FuturePosition{
		ID:        p.ID,
		Code:      p.Code,
		Direction: Action(p.Direction),
		Quantity:  p.Quantity,
		Price:     decimal.NewFromFloat(p.Price),
		LastPrice: decimal.NewFromFloat(p.LastPrice),
		Pnl:       decimal.NewFromFloat(p.Pnl),
	}
}

func Usage(u broker.Usage) model.Usage {
	return model.Usage{
		Connections:    u.Connections,
		Bytes:          u.Bytes,
		LimitBytes:     u.LimitBytes,
		RemainingBytes: u.RemainingBytes,
	}
}

func Margin(m broker.Margin) model.Margin {
	d := decimal.NewFromFloat
	return model.Margin{
		Status:                    FetchStatus(m.Status),
		YesterdayBalance:          d(m.YesterdayBalance),
		TodayBalance:              d(m.TodayBalance),
		DepositWithdrawal:         d(m.DepositWithdrawal),
		Fee:                       d(m.Fee),
		Tax:                       d(m.Tax),
		InitialMargin:             d(m.InitialMargin),
		MaintenanceMargin:         d(m.MaintenanceMargin),
		MarginCall:                d(m.MarginCall),
		RiskIndicator:             d(m.RiskIndicator),
		RoyaltyRevenueExpenditure: d(m.RoyaltyRevenueExpenditure),
		Equity:                    d(m.Equity),
		EquityAmount:              d(m.EquityAmount),
		OptionOpenbuyMarketValue:  d(m.OptionOpenbuyMarketValue),
		OptionOpensellMarketValue: d(m.OptionOpensellMarketValue),
		OptionOpenPosition:        d(m.OptionOpenPosition),
		OptionSettleProfitloss:    d(m.OptionSettleProfitloss),
		FutureOpenPosition:        d(m.FutureOpenPosition),
		TodayFutureOpenPosition:   d(m.TodayFutureOpenPosition),
		FutureSettleProfitloss:    d(m.FutureSettleProfitloss),
		AvailableMargin:           d(m.AvailableMargin),
		PlusMargin:                d(m.PlusMargin),
		PlusMarginIndicator:       d(m.PlusMarginIndicator),
		SecurityCollateralAmount:  d(m.SecurityCollateralAmount),
		OrderMarginPremium:        d(m.OrderMarginPremium),
		CollateralAmount:          d(m.CollateralAmount),
	}
}
