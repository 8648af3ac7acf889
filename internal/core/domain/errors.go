package domain

import "errors"

var (
	// ErrEmptySignerName ...
	ErrEmptySignerName = errors.New("signer wallet name must not be empty")
	// ErrSignerAlreadyProvisioned is returned when trying to mutate a signer
	// whose key material is already known.
	ErrSignerAlreadyProvisioned = errors.New("signer wallet is already provisioned")
	// ErrSignerNotFound ...
	ErrSignerNotFound = errors.New("signer wallet not found")
	// ErrDuplicateSigner ...
	ErrDuplicateSigner = errors.New("a signer wallet with the same name already exists")
	// ErrTooFewSigners is returned when removing a signer would leave less
	// signers than the minimum allowed.
	ErrTooFewSigners = errors.New("signer list would be too short")
	// ErrTooManySigners ...
	ErrTooManySigners = errors.New("signer list would exceed the maximum number of signers")
	// ErrIncompleteKeyMaterial is returned when provisioning a signer with
	// partial key material.
	ErrIncompleteKeyMaterial = errors.New(
		"descriptor, fingerprint, derivation path and extended public key " +
			"must all be defined",
	)
	// ErrInvalidQuorum ...
	ErrInvalidQuorum = errors.New(
		"required signers must be in range [1, total signers]",
	)
	// ErrInvalidTotalSigners ...
	ErrInvalidTotalSigners = errors.New("total signers must be in range [1, 15]")
	// ErrNonContiguousIndex is returned when an address is added to the book
	// with an index different from the next expected one.
	ErrNonContiguousIndex = errors.New("address index must be the next available one")
	// ErrDuplicateAddress ...
	ErrDuplicateAddress = errors.New("address already present in address book")
	// ErrAddressNotFound ...
	ErrAddressNotFound = errors.New("address not found in address book")
	// ErrNegativeBalance ...
	ErrNegativeBalance = errors.New("balance must not be negative")
	// ErrWalletNotCreated ...
	ErrWalletNotCreated = errors.New("multisig wallet has not been created yet")
	// ErrWalletAlreadyCreated ...
	ErrWalletAlreadyCreated = errors.New("multisig wallet is already created")
	// ErrWalletStateNotFound ...
	ErrWalletStateNotFound = errors.New("wallet state not found")
)
