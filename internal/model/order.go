package model

import (
	"time"

	"feedbridge/internal/adapter/enum"

	"github.com/shopspring/decimal"
)

// Trade is the normalized order record published on the trade stream.
type Trade struct {
	Type           enum.OrderType   `json:"type"`
	Code           string           `json:"code"`
	OrderID        string           `json:"order_id"`
	Action         enum.OrderAction `json:"action"`
	Price          decimal.Decimal  `json:"price"`
	RequestedPrice decimal.Decimal  `json:"requested_price"`
	Quantity       int64            `json:"quantity"`
	FilledQuantity int64            `json:"filled_quantity"`
	Status         enum.OrderStatus `json:"status"`
	OrderTime      time.Time        `json:"order_time"`
}
