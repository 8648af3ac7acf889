package application_test

import (
	"fmt"
	"testing"

	"github.com/cascade-wallet/cascade-daemon/internal/core/application"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		kind application.Kind
	}{
		{nil, application.KindNone},
		{&bitcoind.TransportError{Message: "refused"}, application.KindTransport},
		{&bitcoind.RPCError{Code: -18, Message: "not loaded"}, application.KindWalletNotLoaded},
		{&bitcoind.RPCError{Code: -8, Message: "bad param"}, application.KindRPC},
		{fmt.Errorf("wallet x: %w", &descriptor.FormatError{NoCandidate: true}), application.KindDescriptorFormat},
		{&application.KeyDerivationError{Signer: "a"}, application.KindKeyDerivation},
		{&application.ConfigFormatError{Reason: "missing quorum"}, application.KindConfigFormat},
		{&application.InsufficientFundsError{}, application.KindInsufficientFunds},
		{&application.ConfirmationTimeoutError{}, application.KindConfirmationTimeout},
		{domain.ErrSignerNotFound, application.KindNotFound},
		{application.ErrOperationInProgress, application.KindConflict},
		{application.ErrStaleWorkflow, application.KindConflict},
		{domain.ErrWalletAlreadyCreated, application.KindConflict},
		{application.ErrNotConnected, application.KindPrecondition},
		{application.ErrFundingNotRegtest, application.KindPrecondition},
		{domain.ErrInvalidQuorum, application.KindInvalidArgument},
		{multisig.ErrUnknownAddressType, application.KindInvalidArgument},
		{fmt.Errorf("something else"), application.KindInternal},
	}

	for _, tt := range tests {
		require.Equal(t, tt.kind, application.ErrorKind(tt.err), fmt.Sprint(tt.err))
	}
}
