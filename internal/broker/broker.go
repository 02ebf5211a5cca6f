// Package broker declares the boundary with the upstream market data and
// trading collaborator. Nothing in here talks to the network; adapters live in
// sub-packages.
package broker

import (
	"context"

	"feedbridge/internal/adapter/enum"
)

// Credentials carries everything Login and ActivateCA need.
type Credentials struct {
	APIKey     string
	APISecret  string
	PersonID   string
	CAPath     string
	CAPassword string
}

// FeedHandler receives upstream push callbacks. Implementations must return
// quickly: the upstream invokes them on its own delivery goroutine.
type FeedHandler interface {
	OnTick(Tick)
	OnBidAsk(BidAsk)
	OnFeedEvent(FeedEvent)
	OnOrderEvent(state OrderState, msg map[string]any)
}

// Quote subscribes market data streams.
type Quote interface {
	Subscribe(contract Contract, kind enum.SubscriptionKind) error
	Unsubscribe(contract Contract, kind enum.SubscriptionKind) error
}

// Trader places orders and exposes the authoritative order list.
type Trader interface {
	PlaceOrder(contract Contract, req OrderRequest) (Trade, error)
	CancelOrder(trade Trade) (Trade, error)
	// UpdateStatus blocks until the upstream order list is current.
	UpdateStatus(ctx context.Context) error
	ListTrades() ([]Trade, error)
	// UpdateStatusAsync requests pending updates without waiting; cb receives
	// the refreshed trades on an upstream goroutine.
	UpdateStatusAsync(cb func([]Trade)) error
}

// Account serves account and market queries.
type Account interface {
	Kbars(contract Contract, start, end string) (Kbars, error)
	Margin() (Margin, error)
	ListFuturePositions() ([]FuturePosition, error)
	ScannerVolumeRank(count int, date string) ([]ScannerItem, error)
	Usage() (Usage, error)
}

// Client is the full collaborator surface.
type Client interface {
	Quote
	Trader
	Account

	Version() string
	SetFeedHandler(handler FeedHandler)
	// Login starts the handshake and returns; onReady fires once per
	// SecurityType as each upstream subsystem finishes loading.
	Login(ctx context.Context, cred Credentials, onReady func(enum.SecurityType)) error
	ActivateCA(path, password, personID string) error
	AccountsSigned() (stock bool, futopt bool)
	Contracts() Contracts
	Logout() error
}
