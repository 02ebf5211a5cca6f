package sim

import "errors"

var (
	ErrUnknownContract = errors.New("sim: unknown contract")
	ErrNotSubscribed   = errors.New("sim: not subscribed")
	ErrUnknownOrder    = errors.New("sim: unknown order")
)
