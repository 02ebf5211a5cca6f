package enum

// SubscriptionKind is the market data stream a subscription delivers.
type SubscriptionKind uint8

const (
	_subscription_kind_beg SubscriptionKind = iota
	SubscriptionTick
	SubscriptionBidAsk
	_subscription_kind_end
)

func (k SubscriptionKind) IsAvailable() bool {
	return k > _subscription_kind_beg && k < _subscription_kind_end
}

func (k SubscriptionKind) String() string {
	switch k {
	case SubscriptionTick:
		return "tick"
	case SubscriptionBidAsk:
		return "bidask"
	default:
		return "unknown"
	}
}

// SubscriptionKinds lists every available kind.
func SubscriptionKinds() []SubscriptionKind {
	kinds := make([]SubscriptionKind, 0, int(_subscription_kind_end)-1)
	for k := _subscription_kind_beg + 1; k < _subscription_kind_end; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
