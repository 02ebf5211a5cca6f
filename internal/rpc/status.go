package rpc

import (
	"strings"

	"feedbridge/pkg/exception"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodes = map[exception.Code]codes.Code{
	exception.CodeInvalidArgument:      codes.InvalidArgument,
	exception.CodeAlreadySubscribed:    codes.AlreadyExists,
	exception.CodeNotSubscribed:        codes.NotFound,
	exception.CodeCapacityExceeded:     codes.ResourceExhausted,
	exception.CodeUnknownInstrument:    codes.NotFound,
	exception.CodeOrderNotFound:        codes.NotFound,
	exception.CodeAlreadyCancelled:     codes.FailedPrecondition,
	exception.CodeRiskRejected:         codes.FailedPrecondition,
	exception.CodeJournalDisabled:      codes.FailedPrecondition,
	exception.CodeAuthorizationMissing: codes.Unauthenticated,
	exception.CodeUpstreamUnavailable:  codes.Unavailable,
	exception.CodeChannelClosed:        codes.Aborted,
	exception.CodeNotReady:             codes.Unavailable,
	exception.CodeStopped:              codes.Unavailable,
	exception.CodeCancelled:            codes.Canceled,
	exception.CodeInternal:             codes.Internal,
}

// toStatus converts err into a gRPC status whose message starts with the
// exception code. Status errors pass through untouched.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := exception.CodeOf(err)
	grpcCode, ok := grpcCodes[code]
	if !ok {
		grpcCode = codes.Unknown
	}
	return status.Error(grpcCode, string(code)+": "+err.Error())
}

// CodeOf extracts the exception code from an error returned by a Client.
func CodeOf(err error) exception.Code {
	if err == nil {
		return exception.CodeOK
	}
	st, ok := status.FromError(err)
	if !ok {
		return exception.CodeOf(err)
	}
	if prefix, _, found := strings.Cut(st.Message(), ": "); found {
		return exception.Code(prefix)
	}
	if st.Code() == codes.Canceled || st.Code() == codes.DeadlineExceeded {
		return exception.CodeCancelled
	}
	return exception.CodeInternal
}
