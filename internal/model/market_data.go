package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a normalized trade-price update.
type Tick struct {
	Code            string          `json:"code"`
	DateTime        time.Time       `json:"date_time"`
	Open            decimal.Decimal `json:"open"`
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	AvgPrice        decimal.Decimal `json:"avg_price"`
	Close           decimal.Decimal `json:"close"`
	High            decimal.Decimal `json:"high"`
	Low             decimal.Decimal `json:"low"`
	Amount          decimal.Decimal `json:"amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PriceChg        decimal.Decimal `json:"price_chg"`
	PctChg          decimal.Decimal `json:"pct_chg"`
	BidSideTotalVol int64           `json:"bid_side_total_vol"`
	AskSideTotalVol int64           `json:"ask_side_total_vol"`
	Volume          int64           `json:"volume"`
	TotalVolume     int64           `json:"total_volume"`
	TickType        int32           `json:"tick_type"`
	ChgType         int32           `json:"chg_type"`
	Simtrade        bool            `json:"simtrade"`
}

// BidAsk is a normalized top-of-book update.
type BidAsk struct {
	Code                 string            `json:"code"`
	DateTime             time.Time         `json:"date_time"`
	BidTotalVol          int64             `json:"bid_total_vol"`
	AskTotalVol          int64             `json:"ask_total_vol"`
	BidPrice             []decimal.Decimal `json:"bid_price"`
	BidVolume            []int64           `json:"bid_volume"`
	DiffBidVol           []int64           `json:"diff_bid_vol"`
	AskPrice             []decimal.Decimal `json:"ask_price"`
	AskVolume            []int64           `json:"ask_volume"`
	DiffAskVol           []int64           `json:"diff_ask_vol"`
	FirstDerivedBidPrice decimal.Decimal   `json:"first_derived_bid_price"`
	FirstDerivedAskPrice decimal.Decimal   `json:"first_derived_ask_price"`
	FirstDerivedBidVol   int64             `json:"first_derived_bid_vol"`
	FirstDerivedAskVol   int64             `json:"first_derived_ask_vol"`
	UnderlyingPrice      decimal.Decimal   `json:"underlying_price"`
	Simtrade             bool              `json:"simtrade"`
}

// FeedEvent is an upstream session event (connect, reconnect, subscribe ack).
type FeedEvent struct {
	RespCode  int32  `json:"resp_code"`
	EventCode int32  `json:"event_code"`
	Info      string `json:"info"`
	Event     string `json:"event"`
}
