package exception

import (
	"context"
	"errors"
)

// Code is the machine-readable identifier surfaced to RPC callers.
type Code string

const (
	CodeOK                   Code = "OK"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeAlreadySubscribed    Code = "ALREADY_SUBSCRIBED"
	CodeNotSubscribed        Code = "NOT_SUBSCRIBED"
	CodeCapacityExceeded     Code = "CAPACITY_EXCEEDED"
	CodeUnknownInstrument    Code = "UNKNOWN_INSTRUMENT"
	CodeOrderNotFound        Code = "ORDER_NOT_FOUND"
	CodeAlreadyCancelled     Code = "ALREADY_CANCELLED"
	CodeRiskRejected         Code = "RISK_REJECTED"
	CodeJournalDisabled      Code = "JOURNAL_DISABLED"
	CodeAuthorizationMissing Code = "AUTHORIZATION_MISSING"
	CodeUpstreamUnavailable  Code = "UPSTREAM_UNAVAILABLE"
	CodeChannelClosed        Code = "CHANNEL_CLOSED"
	CodeNotReady             Code = "NOT_READY"
	CodeStopped              Code = "STOPPED"
	CodeCancelled            Code = "CANCELLED"
	CodeInternal             Code = "INTERNAL"
)

var codeTable = []struct {
	err  error
	code Code
}{
	{ErrInvalidArgument, CodeInvalidArgument},
	{ErrOrderInvalidRequest, CodeInvalidArgument},
	{ErrUnsupportedKind, CodeInvalidArgument},
	{ErrAlreadySubscribed, CodeAlreadySubscribed},
	{ErrNotSubscribed, CodeNotSubscribed},
	{ErrCapacityExceeded, CodeCapacityExceeded},
	{ErrUnknownInstrument, CodeUnknownInstrument},
	{ErrOrderNotFound, CodeOrderNotFound},
	{ErrAlreadyCancelled, CodeAlreadyCancelled},
	{ErrRiskRejected, CodeRiskRejected},
	{ErrJournalDisabled, CodeJournalDisabled},
	{ErrAuthorizationMissing, CodeAuthorizationMissing},
	{ErrUpstreamUnavailable, CodeUpstreamUnavailable},
	{ErrChannelClosed, CodeChannelClosed},
	{ErrSubscriptionClosed, CodeStopped},
	{ErrNotReady, CodeNotReady},
	{ErrAlreadyLoggedIn, CodeNotReady},
	{ErrStopped, CodeStopped},
	{context.Canceled, CodeCancelled},
	{context.DeadlineExceeded, CodeCancelled},
}

// CodeOf maps err onto the taxonomy. Unknown errors map to CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	for _, entry := range codeTable {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return CodeInternal
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
