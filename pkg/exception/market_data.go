package exception

import "errors"

var (
	ErrAlreadySubscribed  = errors.New("subscription: already subscribed")
	ErrNotSubscribed      = errors.New("subscription: not subscribed")
	ErrCapacityExceeded   = errors.New("subscription: max subscribe count reached")
	ErrUnknownInstrument  = errors.New("subscription: contract not found")
	ErrUnsupportedKind    = errors.New("subscription: unsupported kind")
	ErrSubscriptionClosed = errors.New("subscription: registry closed")
)
