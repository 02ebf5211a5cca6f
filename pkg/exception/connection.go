package exception

import "errors"

var (
	// ErrUpstreamUnavailable marks a transient failure of the broker collaborator.
	ErrUpstreamUnavailable = errors.New("upstream: unavailable")

	// ErrChannelClosed is the terminal signal a consumer observes once its queue is shut down.
	ErrChannelClosed = errors.New("channel closed")
)
