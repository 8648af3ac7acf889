package multisig

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// ValidateAddress makes sure the given string is an address of the network.
func ValidateAddress(address string, net Network) error {
	params, err := net.Params()
	if err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address must not be empty")
	}

	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	if !addr.IsForNet(params) {
		return fmt.Errorf("address is not valid for network %s", net)
	}
	return nil
}
