package model

import (
	"time"

	"feedbridge/internal/adapter/enum"

	"github.com/shopspring/decimal"
)

type Kbar struct {
	Code     string          `json:"code"`
	KbarTime time.Time       `json:"kbar_time"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	Volume   int64           `json:"volume"`
}

type VolumeRank struct {
	Code   string `json:"code"`
	Volume int64  `json:"volume"`
}

type FuturePosition struct {
	ID        int64            `json:"id"`
	Code      string           `json:"code"`
	Direction enum.OrderAction `json:"direction"`
	Quantity  int64            `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	LastPrice decimal.Decimal  `json:"last_price"`
	Pnl       decimal.Decimal  `json:"pnl"`
}

type Margin struct {
	Status                    enum.FetchStatus `json:"status"`
	YesterdayBalance          decimal.Decimal  `json:"yesterday_balance"`
	TodayBalance              decimal.Decimal  `json:"today_balance"`
	DepositWithdrawal         decimal.Decimal  `json:"deposit_withdrawal"`
	Fee                       decimal.Decimal  `json:"fee"`
	Tax                       decimal.Decimal  `json:"tax"`
	InitialMargin             decimal.Decimal  `json:"initial_margin"`
	MaintenanceMargin         decimal.Decimal  `json:"maintenance_margin"`
	MarginCall                decimal.Decimal  `json:"margin_call"`
	RiskIndicator             decimal.Decimal  `json:"risk_indicator"`
	RoyaltyRevenueExpenditure decimal.Decimal  `json:"royalty_revenue_expenditure"`
	Equity                    decimal.Decimal  `json:"equity"`
	EquityAmount              decimal.Decimal  `json:"equity_amount"`
	OptionOpenbuyMarketValue  decimal.Decimal  `json:"option_openbuy_market_value"`
	OptionOpensellMarketValue decimal.Decimal  `json:"option_opensell_market_value"`
	OptionOpenPosition        decimal.Decimal  `json:"option_open_position"`
	OptionSettleProfitloss    decimal.Decimal  `json:"option_settle_profitloss"`
	FutureOpenPosition        decimal.Decimal  `json:"future_open_position"`
	TodayFutureOpenPosition   decimal.Decimal  `json:"today_future_open_position"`
	FutureSettleProfitloss    decimal.Decimal  `json:"future_settle_profitloss"`
	AvailableMargin           decimal.Decimal  `json:"available_margin"`
	PlusMargin                decimal.Decimal  `json:"plus_margin"`
	PlusMarginIndicator       decimal.Decimal  `json:"plus_margin_indicator"`
	SecurityCollateralAmount  decimal.Decimal  `json:"security_collateral_amount"`
	OrderMarginPremium        decimal.Decimal  `json:"order_margin_premium"`
	CollateralAmount          decimal.Decimal  `json:"collateral_amount"`
}

type Usage struct {
	Connections    int32 `json:"connections"`
	Bytes          int64 `json:"bytes"`
	LimitBytes     int64 `json:"limit_bytes"`
	RemainingBytes int64 `json:"remaining_bytes"`
}
