package rpc

import (
	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
)

// Wire messages. Every payload is JSON encoded.

type Empty struct{}

type ContractList struct {
	Contracts []model.Contract `json:"contracts"`
}

type KbarRequest struct {
	Code  string `json:"code"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type KbarList struct {
	Kbars []model.Kbar `json:"kbars"`
}

type VolumeRankRequest struct {
	Count int32  `json:"count"`
	Date  string `json:"date"`
}

type VolumeRankList struct {
	Ranks []model.VolumeRank `json:"ranks"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type OrderRequest struct {
	Code     string           `json:"code"`
	Action   enum.OrderAction `json:"action"`
	Price    decimal.Decimal  `json:"price"`
	Quantity int64            `json:"quantity"`
}

type OrderIDRequest struct {
	OrderID string `json:"order_id"`
}

type TradeList struct {
	Trades []model.Trade `json:"trades"`
}

type SubscriptionList struct {
	Ticks    []string `json:"ticks"`
	BidAsks  []string `json:"bid_asks"`
	Count    int32    `json:"count"`
	MaxCount int32    `json:"max_count"`
}

type PositionList struct {
	Positions []model.FuturePosition `json:"positions"`
}

type Ping struct {
	Message string `json:"message"`
}

type Pong struct {
	Message string `json:"message"`
}
