package application

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cascade-wallet/cascade-daemon/internal/core/domain"
	"github.com/cascade-wallet/cascade-daemon/pkg/bitcoind"
	"github.com/cascade-wallet/cascade-daemon/pkg/descriptor"
	"github.com/cascade-wallet/cascade-daemon/pkg/multisig"
)

var (
	// ErrNotConnected is returned by every operation that needs the node
	// before a successful Connect.
	ErrNotConnected = errors.New("not connected to node")
	// ErrOperationInProgress is returned when the same workflow step is
	// triggered again while it is still outstanding.
	ErrOperationInProgress = errors.New("operation already in progress")
	// ErrStaleWorkflow is returned when the workflow got reset or replaced
	// while an operation was in flight. The operation result is discarded.
	ErrStaleWorkflow = errors.New("workflow changed while operation was in progress, result discarded")
	// ErrNotEnoughProvisionedSigners ...
	ErrNotEnoughProvisionedSigners = errors.New("not enough provisioned signer wallets")
	// ErrFundingNotRegtest guards the funding simulator, that must never run
	// against a public network.
	ErrFundingNotRegtest = errors.New("funding is available on regtest only")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number of at most 8 decimals")
	// ErrWrongNetwork is returned when the node chain does not match the
	// configured network.
	ErrWrongNetwork = errors.New("node chain does not match configured network")
	// ErrWatchOnlyWalletUnavailable ...
	ErrWatchOnlyWalletUnavailable = errors.New("unable to create or reuse a watch-only wallet")
	// ErrConfigFormat is wrapped by every ConfigFormatError.
	ErrConfigFormat = errors.New("invalid config format")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
)

// KeyDerivationError names the signer whose key made a multisig derivation
// fail.
type KeyDerivationError struct {
	Signer string
	Path   string
	Err    error
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf(
		"failed to derive key of signer %s at %s: %s", e.Signer, e.Path, e.Err,
	)
}

func (e *KeyDerivationError) Unwrap() error {
	return e.Err
}

// ConfigFormatError is returned when an imported wallet config is rejected.
type ConfigFormatError struct {
	Reason string
}

func (e *ConfigFormatError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfigFormat, e.Reason)
}

func (e *ConfigFormatError) Unwrap() error {
	return ErrConfigFormat
}

// InsufficientFundsError is returned by the funding simulator when the miner
// wallet can't afford the requested amount even after mining.
type InsufficientFundsError struct {
	Requested btcutil.Amount
	Available btcutil.Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"insufficient balance (%s) after mining, need %s", e.Available, e.Requested,
	)
}

// ConfirmationTimeoutError is returned when a funding transaction is still
// unconfirmed after mining a block on top of it.
type ConfirmationTimeoutError struct {
	TxID          string
	Confirmations int64
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf(
		"transaction %s failed to confirm (%d confirmations)",
		e.TxID, e.Confirmations,
	)
}

// Kind classifies errors returned by this package.
type Kind string

const (
	KindNone                Kind = ""
	KindTransport           Kind = "transport"
	KindRPC                 Kind = "rpc"
	KindWalletNotLoaded     Kind = "wallet_not_loaded"
	KindDescriptorFormat    Kind = "descriptor_format"
	KindKeyDerivation       Kind = "key_derivation"
	KindConfigFormat        Kind = "config_format"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindConfirmationTimeout Kind = "confirmation_timeout"
	KindInvalidArgument     Kind = "invalid_argument"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindPrecondition        Kind = "failed_precondition"
	KindInternal            Kind = "internal"
)

// ErrorKind returns the kind of the given error.
func ErrorKind(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		keyErr       *KeyDerivationError
		configErr    *ConfigFormatError
		fundsErr     *InsufficientFundsError
		timeoutErr   *ConfirmationTimeoutError
		rpcErr       *bitcoind.RPCError
		transportErr *bitcoind.TransportError
	)

	switch {
	case errors.As(err, &configErr):
		return KindConfigFormat
	case errors.As(err, &keyErr):
		return KindKeyDerivation
	case errors.As(err, &fundsErr):
		return KindInsufficientFunds
	case errors.As(err, &timeoutErr):
		return KindConfirmationTimeout
	case errors.Is(err, descriptor.ErrDescriptorFormat):
		return KindDescriptorFormat
	case errors.As(err, &transportErr):
		return KindTransport
	case bitcoind.IsWalletNotLoaded(err):
		return KindWalletNotLoaded
	case errors.As(err, &rpcErr):
		return KindRPC
	}

	switch {
	case errors.Is(err, domain.ErrSignerNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrWalletStateNotFound):
		return KindNotFound
	case errors.Is(err, ErrOperationInProgress),
		errors.Is(err, ErrStaleWorkflow),
		errors.Is(err, domain.ErrDuplicateSigner),
		errors.Is(err, domain.ErrSignerAlreadyProvisioned),
		errors.Is(err, domain.ErrWalletAlreadyCreated):
		return KindConflict
	case errors.Is(err, ErrNotConnected),
		errors.Is(err, ErrNotEnoughProvisionedSigners),
		errors.Is(err, ErrFundingNotRegtest),
		errors.Is(err, ErrWrongNetwork),
		errors.Is(err, ErrWatchOnlyWalletUnavailable),
		errors.Is(err, domain.ErrWalletNotCreated):
		return KindPrecondition
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidAddress),
		errors.Is(err, domain.ErrEmptySignerName),
		errors.Is(err, domain.ErrTooFewSigners),
		errors.Is(err, domain.ErrTooManySigners),
		errors.Is(err, domain.ErrInvalidQuorum),
		errors.Is(err, domain.ErrInvalidTotalSigners),
		errors.Is(err, domain.ErrIncompleteKeyMaterial),
		errors.Is(err, multisig.ErrAddressIndexOutOfRange),
		errors.Is(err, multisig.ErrUnknownAddressType),
		errors.Is(err, multisig.ErrUnknownNetwork),
		errors.Is(err, multisig.ErrInvalidThreshold),
		errors.Is(err, multisig.ErrTooManyPublicKeys):
		return KindInvalidArgument
	}
	return KindInternal
}
