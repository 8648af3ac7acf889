package multisig

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// ValidateExtendedPublicKey returns an empty string if the given string is a
// valid extended public key for the network, otherwise a description of the
// problem.
func ValidateExtendedPublicKey(xpub string, net Network) string {
	if _, err := parseExtendedPublicKey(xpub, net); err != nil {
		return err.Error()
	}
	return ""
}

// DeriveChildPublicKey derives the non-hardened child of the given account
// level extended public key at relPath (ie. m/0/3) and returns its hex
// encoded compressed serialization.
func DeriveChildPublicKey(xpub, relPath string, net Network) (string, error) {
	key, err := parseExtendedPublicKey(xpub, net)
	if err != nil {
		return "", err
	}

	path, err := ParseDerivationPath(relPath)
	if err != nil {
		return "", err
	}
	if path.IsHardened() {
		return "", ErrHardenedRelativePath
	}

	for _, i := range path {
		key, err = key.Derive(i)
		if err != nil {
			return "", fmt.Errorf("failed to derive child %d: %w", i, err)
		}
	}

	pubkey, err := key.ECPubKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pubkey.SerializeCompressed()), nil
}

func parseExtendedPublicKey(xpub string, net Network) (*hdkeychain.ExtendedKey, error) {
	params, err := net.Params()
	if err != nil {
		return nil, err
	}

	xpub = strings.TrimSpace(xpub)
	if xpub == "" {
		return nil, fmt.Errorf("extended public key must not be empty")
	}

	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return nil, fmt.Errorf("invalid extended public key: %w", err)
	}
	if key.IsPrivate() {
		return nil, fmt.Errorf("extended key must be public, got a private one")
	}
	if !key.IsForNet(params) {
		return nil, fmt.Errorf("extended public key is not valid for network %s", net)
	}
	return key, nil
}
