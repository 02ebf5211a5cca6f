// Package lifecycle drives login, readiness and shutdown of the bridge.
package lifecycle

import (
	"context"
	"sync"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"
	"feedbridge/internal/directory"
	"feedbridge/internal/obs"
	"feedbridge/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// DefaultReadinessTarget is the number of subsystem acknowledgements the
// upstream sends after login: index, stock, future and option.
const DefaultReadinessTarget = 4

// OrderCache is the part of the order cache the controller drives.
type OrderCache interface {
	Refresh(ctx context.Context) error
	Close()
}

// Closer closes a queue or a set of queues.
type Closer interface {
	Close()
}

// SubscriptionCloser closes every subscription queue.
type SubscriptionCloser interface {
	CloseAll()
}

// Components are the stores the controller fills on login and tears down on
// shutdown.
type Components struct {
	Handler       broker.FeedHandler
	Directories   *directory.Set
	Orders        OrderCache
	Events        Closer
	Subscriptions SubscriptionCloser
}

// Controller owns the Created → LoggingIn → Ready → ShuttingDown → Stopped
// state machine.
type Controller struct {
	client  broker.Client
	comp    Components
	metrics *obs.Metrics
	target  int

	mu      sync.Mutex
	state   enum.Lifecycle
	readyCh chan struct{}
	doneCh  chan struct{}

	ackMu   sync.Mutex
	ackCond *sync.Cond
	acked   map[enum.SecurityType]struct{}
	abort   bool
}

// NewController builds a controller. target <= 0 selects
// DefaultReadinessTarget.
func NewController(client broker.Client, comp Components, target int, metrics *obs.Metrics) *Controller {
	if target <= 0 {
		target = DefaultReadinessTarget
	}
	c := &Controller{
		client:  client,
		comp:    comp,
		metrics: metrics,
		target:  target,
		state:   enum.LifecycleCreated,
		readyCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
		acked:   make(map[enum.SecurityType]struct{}, target),
	}
	c.ackCond = sync.NewCond(&c.ackMu)
	metrics.SetLifecycle(enum.LifecycleCreated)
	return c
}

// Login runs the whole handshake and returns once the controller is Ready.
// Any error leaves the controller in Created, except after Shutdown.
func (c *Controller) Login(ctx context.Context, cred broker.Credentials) error {
	if err := c.transition(enum.LifecycleCreated, enum.LifecycleLoggingIn); err != nil {
		return err
	}

	if err := c.login(ctx, cred); err != nil {
		_ = c.transition(enum.LifecycleLoggingIn, enum.LifecycleCreated)
		return err
	}

	if err := c.transition(enum.LifecycleLoggingIn, enum.LifecycleReady); err != nil {
		return err
	}
	close(c.readyCh)
	logs.Info("bridge ready")
	return nil
}

func (c *Controller) login(ctx context.Context, cred broker.Credentials) error {
	if c.comp.Handler != nil {
		c.client.SetFeedHandler(c.comp.Handler)
	}

	c.ackMu.Lock()
	clear(c.acked)
	c.ackMu.Unlock()

	logs.Infof("login with broker %s", c.client.Version())
	if err := c.client.Login(ctx, cred, c.acknowledge); err != nil {
		return errors.Wrapf(exception.ErrUpstreamUnavailable, "login, err: %+v", err)
	}

	if err := c.waitAcknowledged(ctx); err != nil {
		return err
	}

	if cred.CAPath != "" {
		if err := c.client.ActivateCA(cred.CAPath, cred.CAPassword, cred.PersonID); err != nil {
			return errors.Wrapf(exception.ErrUpstreamUnavailable, "activate ca, err: %+v", err)
		}
	}

	if c.comp.Directories != nil {
		c.comp.Directories.Load(c.client.Contracts())
	}

	stock, futopt := c.client.AccountsSigned()
	if !stock || !futopt {
		return errors.Wrapf(exception.ErrAuthorizationMissing, "stock signed: %t, futopt signed: %t", stock, futopt)
	}

	if c.comp.Orders != nil {
		if err := c.comp.Orders.Refresh(ctx); err != nil {
			logs.Warnf("initial order refresh, err: %+v", err)
		}
	}
	return nil
}

// acknowledge records one subsystem readiness callback. Repeats of a
// security type and callbacks beyond the target are ignored.
func (c *Controller) acknowledge(t enum.SecurityType) {
	c.ackMu.Lock()
	defer c.ackMu.Unlock()

	if _, ok := c.acked[t]; ok || len(c.acked) >= c.target {
		return
	}
	c.acked[t] = struct{}{}
	logs.Infof("login progress: %d/%d (%s)", len(c.acked), c.target, t)
	c.ackCond.Broadcast()
}

func (c *Controller) waitAcknowledged(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.ackMu.Lock()
		c.ackCond.Broadcast()
		c.ackMu.Unlock()
	})
	defer stop()

	c.ackMu.Lock()
	defer c.ackMu.Unlock()
	for len(c.acked) < c.target {
		if c.abort {
			return exception.ErrStopped
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "wait login progress %d/%d", len(c.acked), c.target)
		}
		c.ackCond.Wait()
	}
	return nil
}

// Progress reports acknowledged subsystems.
func (c *Controller) Progress() int {
	c.ackMu.Lock()
	defer c.ackMu.Unlock()
	return len(c.acked)
}

func (c *Controller) State() enum.Lifecycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Ready() bool {
	return c.State() == enum.LifecycleReady
}

// Guard returns nil only while Ready.
func (c *Controller) Guard() error {
	switch c.State() {
	case enum.LifecycleReady:
		return nil
	case enum.LifecycleShuttingDown, enum.LifecycleStopped:
		return exception.ErrStopped
	default:
		return exception.ErrNotReady
	}
}

// WaitReady blocks until Ready, Shutdown or ctx is done.
func (c *Controller) WaitReady(ctx context.Context) error {
	select {
	case <-c.readyCh:
		return c.Guard()
	case <-c.doneCh:
		return exception.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Shutdown has finished.
func (c *Controller) Done() <-chan struct{} {
	return c.doneCh
}

// Shutdown closes the event queue, the order queue and every subscription
// queue, then logs out. Only the first call does anything.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.state == enum.LifecycleShuttingDown || c.state == enum.LifecycleStopped {
		c.mu.Unlock()
		return
	}
	c.state = enum.LifecycleShuttingDown
	c.mu.Unlock()
	c.metrics.SetLifecycle(enum.LifecycleShuttingDown)

	c.ackMu.Lock()
	c.abort = true
	c.ackCond.Broadcast()
	c.ackMu.Unlock()

	if c.comp.Events != nil {
		c.comp.Events.Close()
	}
	if c.comp.Orders != nil {
		c.comp.Orders.Close()
	}
	if c.comp.Subscriptions != nil {
		c.comp.Subscriptions.CloseAll()
	}

	if err := c.client.Logout(); err != nil {
		logs.Errorf("logout, err: %+v", err)
	} else {
		logs.Info("logout success")
	}

	c.mu.Lock()
	c.state = enum.LifecycleStopped
	c.mu.Unlock()
	c.metrics.SetLifecycle(enum.LifecycleStopped)
	close(c.doneCh)
}

func (c *Controller) transition(from, to enum.Lifecycle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != from {
		switch c.state {
		case enum.LifecycleShuttingDown, enum.LifecycleStopped:
			return exception.ErrStopped
		case enum.LifecycleLoggingIn, enum.LifecycleReady:
			return exception.ErrAlreadyLoggedIn
		default:
			return errors.Wrapf(exception.ErrInternal, "transition %s -> %s from %s", from, to, c.state)
		}
	}
	c.state = to
	c.metrics.SetLifecycle(to)
	return nil
}
