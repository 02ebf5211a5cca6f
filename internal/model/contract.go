package model

import (
	"feedbridge/internal/adapter/enum"

	"github.com/shopspring/decimal"
)

// Contract is a directory entry as listed to clients.
type Contract struct {
	SecurityType         enum.SecurityType `json:"security_type"`
	Code                 string            `json:"code"`
	Symbol               string            `json:"symbol"`
	Name                 string            `json:"name"`
	Category             string            `json:"category"`
	Currency             string            `json:"currency"`
	Exchange             string            `json:"exchange"`
	DayTrade             string            `json:"day_trade"`
	DeliveryDate         string            `json:"delivery_date"`
	DeliveryMonth        string            `json:"delivery_month"`
	OptionRight          string            `json:"option_right"`
	TargetCode           string            `json:"target_code"`
	UnderlyingCode       string            `json:"underlying_code"`
	UnderlyingKind       string            `json:"underlying_kind"`
	UpdateDate           string            `json:"update_date"`
	LimitUp              decimal.Decimal   `json:"limit_up"`
	LimitDown            decimal.Decimal   `json:"limit_down"`
	Reference            decimal.Decimal   `json:"reference"`
	StrikePrice          decimal.Decimal   `json:"strike_price"`
	Multiplier           int64             `json:"multiplier"`
	Unit                 int64             `json:"unit"`
	MarginTradingBalance int64             `json:"margin_trading_balance"`
	ShortSellingBalance  int64             `json:"short_selling_balance"`
}
