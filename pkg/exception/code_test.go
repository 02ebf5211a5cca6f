package exception

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yanun0323/errors"
)

func TestCodeOf(t *testing.T) {
	testCases := []struct {
		desc string
		err  error
		want Code
	}{
		{desc: "nil", err: nil, want: CodeOK},
		{desc: "sentinel", err: ErrAlreadySubscribed, want: CodeAlreadySubscribed},
		{desc: "fmt wrapped", err: fmt.Errorf("subscribe TXFA4: %w", ErrCapacityExceeded), want: CodeCapacityExceeded},
		{desc: "wrap", err: errors.Wrap(ErrUnknownInstrument, "TXFA4"), want: CodeUnknownInstrument},
		{desc: "wrapf", err: errors.Wrapf(ErrAlreadySubscribed, "%s %s", "tick", "TXFA4"), want: CodeAlreadySubscribed},
		{desc: "wrapf with cause", err: errors.Wrapf(ErrUpstreamUnavailable, "subscribe %s, err: %+v", "TXFA4", fmt.Errorf("timeout")), want: CodeUpstreamUnavailable},
		{desc: "wrapped twice", err: errors.Wrap(errors.Wrap(ErrOrderNotFound, "o1"), "cancel"), want: CodeOrderNotFound},
		{desc: "context", err: context.Canceled, want: CodeCancelled},
		{desc: "wrapped context", err: errors.Wrap(context.DeadlineExceeded, "login"), want: CodeCancelled},
		{desc: "unknown", err: fmt.Errorf("boom"), want: CodeInternal},
		{desc: "unknown wrapped", err: errors.Wrap(fmt.Errorf("boom"), "refresh"), want: CodeInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, CodeOf(tc.err))
		})
	}
}

func TestCodeOfSurvivesWrapping(t *testing.T) {
	for _, entry := range codeTable {
		t.Run(entry.err.Error(), func(t *testing.T) {
			wrapped := []error{
				entry.err,
				errors.Wrap(entry.err, "TXFA4"),
				errors.Wrapf(entry.err, "%s %s", "tick", "TXFA4"),
				errors.Wrapf(errors.Wrap(entry.err, "TXFA4"), "kind: %d", 1),
			}
			for _, err := range wrapped {
				assert.True(t, Is(err, entry.err), "%v", err)
				assert.Equal(t, entry.code, CodeOf(err), "%v", err)
			}
		})
	}
}
