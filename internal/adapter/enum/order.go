package enum

// OrderAction buy, sell
type OrderAction uint8

const (
	OrderActionUnknown OrderAction = iota
	OrderActionBuy
	OrderActionSell
	_order_action_end
)

func (a OrderAction) IsAvailable() bool {
	return a > OrderActionUnknown && a < _order_action_end
}

func (a OrderAction) String() string {
	switch a {
	case OrderActionBuy:
		return "ORDER_ACTION_BUY"
	case OrderActionSell:
		return "ORDER_ACTION_SELL"
	default:
		return "ORDER_ACTION_UNKNOWN"
	}
}

// OrderType stock lot, stock share, future
type OrderType uint8

const (
	OrderTypeUnknown OrderType = iota
	OrderTypeStockLot
	OrderTypeStockShare
	OrderTypeFuture
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > OrderTypeUnknown && t < _order_type_end
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeStockLot:
		return "TYPE_STOCK_LOT"
	case OrderTypeStockShare:
		return "TYPE_STOCK_SHARE"
	case OrderTypeFuture:
		return "TYPE_FUTURE"
	default:
		return "TYPE_UNKNOWN"
	}
}

// OrderStatus pending submit, pre-submitted, submitted, part filled, filled,
// cancelled, failed, inactive
type OrderStatus uint8

const (
	OrderStatusUnknown OrderStatus = iota
	OrderStatusPendingSubmit
	OrderStatusPreSubmitted
	OrderStatusSubmitted
	OrderStatusPartFilled
	OrderStatusFilled
	OrderStatusCancelled
	OrderStatusFailed
	OrderStatusInactive
	_order_status_end
)

func (s OrderStatus) IsAvailable() bool {
	return s > OrderStatusUnknown && s < _order_status_end
}

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusFailed, OrderStatusInactive:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPendingSubmit:
		return "ORDER_STATUS_PENDING_SUBMIT"
	case OrderStatusPreSubmitted:
		return "ORDER_STATUS_PRE_SUBMITTED"
	case OrderStatusSubmitted:
		return "ORDER_STATUS_SUBMITTED"
	case OrderStatusPartFilled:
		return "ORDER_STATUS_PART_FILLED"
	case OrderStatusFilled:
		return "ORDER_STATUS_FILLED"
	case OrderStatusCancelled:
		return "ORDER_STATUS_CANCELLED"
	case OrderStatusFailed:
		return "ORDER_STATUS_FAILED"
	case OrderStatusInactive:
		return "ORDER_STATUS_INACTIVE"
	default:
		return "ORDER_STATUS_UNKNOWN"
	}
}

// FetchStatus reports whether an account query finished upstream.
type FetchStatus uint8

const (
	FetchStatusUnknown FetchStatus = iota
	FetchStatusUnfetch
	FetchStatusFetching
	FetchStatusFetched
	_fetch_status_end
)

func (s FetchStatus) IsAvailable() bool {
	return s > FetchStatusUnknown && s < _fetch_status_end
}
