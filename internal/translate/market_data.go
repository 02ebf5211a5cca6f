package translate

import (
	"feedbridge/internal/broker"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
)

func Tick(t broker.Tick) model.Tick {
	return model.Tick{
		Code:            t.Code,
		DateTime:        t.DateTime,
		Open:            decimal.NewFromFloat(t.Open),
		UnderlyingPrice: decimal.NewFromFloat(t.UnderlyingPrice),
		AvgPrice:        decimal.NewFromFloat(t.AvgPrice),
		Close:           decimal.NewFromFloat(t.Close),
		High:            decimal.NewFromFloat(t.High),
		Low:             decimal.NewFromFloat(t.Low),
		Amount:          decimal.NewFromFloat(t.Amount),
		TotalAmount:     decimal.NewFromFloat(t.TotalAmount),
		PriceChg:        decimal.NewFromFloat(t.PriceChg),
		PctChg:          decimal.NewFromFloat(t.PctChg),
		BidSideTotalVol: t.BidSideTotalVol,
		AskSideTotalVol: t.AskSideTotalVol,
		Volume:          t.Volume,
		TotalVolume:     t.TotalVolume,
		TickType:        t.TickType,
		ChgType:         t.ChgType,
		Simtrade:        t.Simtrade,
	}
}

func BidAsk(b broker.BidAsk) model.BidAsk {
	return model.BidAsk{
		Code:                 b.Code,
		DateTime:             b.DateTime,
		BidTotalVol:          b.BidTotalVol,
		AskTotalVol:          b.AskTotalVol,
		BidPrice:             decimals(b.BidPrice),
		BidVolume:            b.BidVolume,
		DiffBidVol:           b.DiffBidVol,
		AskPrice:             decimals(b.AskPrice),
		AskVolume:            b.AskVolume,
		DiffAskVol:           b.DiffAskVol,
		FirstDerivedBidPrice: decimal.NewFromFloat(b.FirstDerivedBidPrice),
		FirstDerivedAskPrice: decimal.NewFromFloat(b.FirstDerivedAskPrice),
		FirstDerivedBidVol:   b.FirstDerivedBidVol,
		FirstDerivedAskVol:   b.FirstDerivedAskVol,
		UnderlyingPrice:      decimal.NewFromFloat(b.UnderlyingPrice),
		Simtrade:             b.Simtrade,
	}
}

func FeedEvent(e broker.FeedEvent) model.FeedEvent {
	return model.FeedEvent{
		RespCode:  e.RespCode,
		EventCode: e.EventCode,
		Info:      e.Info,
		Event:     e.Event,
	}
}

func decimals(src []float64) []decimal.Decimal {
	if src == nil {
		return nil
	}
	out := make([]decimal.Decimal, len(src))
	for i, v := range src {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
