package sim

import "feedbridge/internal/broker"

// Failure injection and inspection helpers.

func (c *Client) SetLoginError(err error) {
	c.mu.Lock()
	c.loginErr = err
	c.mu.Unlock()
}

func (c *Client) SetActivateCAError(err error) {
	c.mu.Lock()
	c.caErr = err
	c.mu.Unlock()
}

func (c *Client) SetSubscribeError(err error) {
	c.mu.Lock()
	c.subErr = err
	c.mu.Unlock()
}

func (c *Client) SetLogoutError(err error) {
	c.mu.Lock()
	c.logoutErr = err
	c.mu.Unlock()
}

func (c *Client) SetUpdateStatusError(err error) {
	c.mu.Lock()
	c.updateErr = err
	c.mu.Unlock()
}

func (c *Client) SetPlaceOrderError(err error) {
	c.mu.Lock()
	c.placeErr = err
	c.mu.Unlock()
}

// FailListTrades queues errs to be returned by the next len(errs) ListTrades
// calls.
func (c *Client) FailListTrades(errs ...error) {
	c.mu.Lock()
	c.listErr = append(c.listErr, errs...)
	c.mu.Unlock()
}

// SetTrades replaces the authoritative order list.
func (c *Client) SetTrades(trades []broker.Trade) {
	c.mu.Lock()
	c.trades = append([]broker.Trade(nil), trades...)
	c.mu.Unlock()
}

func (c *Client) ListCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls
}

func (c *Client) LogoutCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logoutCalls
}

func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}
