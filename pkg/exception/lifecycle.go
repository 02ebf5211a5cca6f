package exception

import "errors"

var (
	// ErrAuthorizationMissing is fatal: the process must not proceed past login.
	ErrAuthorizationMissing = errors.New("lifecycle: account not signed")
	ErrNotReady             = errors.New("lifecycle: not ready")
	ErrStopped              = errors.New("lifecycle: stopped")
	ErrAlreadyLoggedIn      = errors.New("lifecycle: login already attempted")
)
