package multisig

import (
	"errors"
	"fmt"
)

var (
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrHardenedRelativePath is returned when a child derivation from an
	// extended public key is asked for a hardened index.
	ErrHardenedRelativePath = errors.New(
		"relative path must not contain hardened indexes",
	)
	// ErrAddressIndexOutOfRange is returned for receive indexes that would
	// require a hardened derivation.
	ErrAddressIndexOutOfRange = fmt.Errorf(
		"address index must be lower than %d", MaxAddressIndex+1,
	)
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("network must be one of mainnet, testnet or regtest")
	// ErrUnknownAddressType ...
	ErrUnknownAddressType = errors.New(
		"address type must be one of P2SH, P2SH-P2WSH or P2WSH",
	)
	// ErrNullPublicKeys ...
	ErrNullPublicKeys = errors.New("public key list must not be empty")
	// ErrInvalidThreshold ...
	ErrInvalidThreshold = errors.New(
		"required signers must be in range [1, number of public keys]",
	)
	// ErrTooManyPublicKeys ...
	ErrTooManyPublicKeys = fmt.Errorf(
		"number of public keys must not exceed %d", MaxPublicKeys,
	)
)
