package risk

import (
	"sync"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

var bpsScale = decimal.NewFromInt(10000)

// Config defines simple pre-trade limits. Zero disables a limit.
type Config struct {
	KillSwitch           bool          `yaml:"kill_switch"`
	MaxOrderQty          int64         `yaml:"max_order_qty"`
	MaxOrderNotional     float64       `yaml:"max_order_notional"`
	OrderRateLimit       int           `yaml:"order_rate_limit"`
	OrderRateWindow      time.Duration `yaml:"order_rate_window"`
	MaxPriceDeviationBps int64         `yaml:"max_price_deviation_bps"`
}

// Request is the order about to be placed upstream.
type Request struct {
	Code       string
	Action     enum.OrderAction
	Price      decimal.Decimal
	Quantity   int64
	Multiplier int64
	// Reference is the contract's reference price; zero skips the band check.
	Reference decimal.Decimal
}

// Engine evaluates risk decisions. Safe for concurrent use.
type Engine struct {
	cfg Config

	mu              sync.Mutex
	rateWindowStart time.Time
	rateCount       int
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate returns nil when req may be placed, otherwise an error wrapping
// exception.ErrRiskRejected with the reason.
func (e *Engine) Evaluate(req Request, now time.Time) error {
	if e == nil {
		return nil
	}
	if req.Quantity <= 0 || !req.Action.IsAvailable() || !req.Price.IsPositive() {
		return errors.Wrapf(exception.ErrOrderInvalidRequest, "%s %s %s x %d", req.Action, req.Code, req.Price, req.Quantity)
	}

	if e.cfg.KillSwitch {
		return errors.Wrap(exception.ErrRiskRejected, "kill switch")
	}

	if e.cfg.OrderRateLimit > 0 && e.cfg.OrderRateWindow > 0 {
		e.mu.Lock()
		if e.rateWindowStart.IsZero() || now.Sub(e.rateWindowStart) >= e.cfg.OrderRateWindow {
			e.rateWindowStart = now
			e.rateCount = 0
		}
		e.rateCount++
		exceeded := e.rateCount > e.cfg.OrderRateLimit
		e.mu.Unlock()
		if exceeded {
			return errors.Wrapf(exception.ErrRiskRejected, "rate limit %d per %s", e.cfg.OrderRateLimit, e.cfg.OrderRateWindow)
		}
	}

	if e.cfg.MaxOrderQty > 0 && req.Quantity > e.cfg.MaxOrderQty {
		return errors.Wrapf(exception.ErrRiskRejected, "quantity %d over %d", req.Quantity, e.cfg.MaxOrderQty)
	}

	if e.cfg.MaxPriceDeviationBps > 0 && req.Reference.IsPositive() {
		diff := req.Price.Sub(req.Reference).Abs()
		if diff.Mul(bpsScale).GreaterThan(req.Reference.Mul(decimal.NewFromInt(e.cfg.MaxPriceDeviationBps))) {
			return errors.Wrapf(exception.ErrRiskRejected, "price %s outside %d bps of %s", req.Price, e.cfg.MaxPriceDeviationBps, req.Reference)
		}
	}

	if e.cfg.MaxOrderNotional > 0 {
		multiplier := req.Multiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		notional := req.Price.Mul(decimal.NewFromInt(req.Quantity)).Mul(decimal.NewFromInt(multiplier))
		if notional.GreaterThan(decimal.NewFromFloat(e.cfg.MaxOrderNotional)) {
			return errors.Wrapf(exception.ErrRiskRejected, "notional %s over %v", notional, e.cfg.MaxOrderNotional)
		}
	}

	return nil
}
